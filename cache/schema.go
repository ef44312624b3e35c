package cache

import "database/sql"

const schemaVersion = 1

func createTables(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS cache_metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	// Cover metadata - tracks cover files written to the images tree
	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS cover_metadata (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			platform_fs_slug TEXT NOT NULL,
			rom_id INTEGER NOT NULL,
			file_path TEXT NOT NULL,
			file_size_bytes INTEGER DEFAULT 0,
			cached_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(platform_fs_slug, rom_id)
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_cover_platform_rom ON cover_metadata(platform_fs_slug, rom_id)`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO cache_metadata (key, value, updated_at)
		VALUES ('schema_version', ?, CURRENT_TIMESTAMP)
	`, schemaVersion)
	if err != nil {
		return err
	}

	return tx.Commit()
}
