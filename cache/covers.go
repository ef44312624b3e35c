package cache

import (
	"fmt"
	"log/slog"
	"os"
)

// MarkCover records a downloaded cover file for a ROM.
func (m *Manager) MarkCover(fsSlug string, romID int, filePath string) error {
	if m == nil || !m.initialized {
		return ErrNotInitialized
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var size int64
	if info, err := os.Stat(filePath); err == nil {
		size = info.Size()
	}

	_, err := m.db.Exec(`
		INSERT OR REPLACE INTO cover_metadata
		(platform_fs_slug, rom_id, file_path, file_size_bytes, cached_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, fsSlug, romID, filePath, size)
	if err != nil {
		return newCacheError("save", fmt.Sprintf("%s/%d", fsSlug, romID), err)
	}
	return nil
}

// IsCoverCached reports whether a cover row exists and its file is still
// on disk.
func (m *Manager) IsCoverCached(fsSlug string, romID int) bool {
	if m == nil || !m.initialized {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var filePath string
	err := m.db.QueryRow(`
		SELECT file_path FROM cover_metadata
		WHERE platform_fs_slug = ? AND rom_id = ?
	`, fsSlug, romID).Scan(&filePath)
	if err != nil {
		return false
	}

	_, err = os.Stat(filePath)
	return err == nil
}

// RemoveCover drops the cache row for a ROM's cover.
func (m *Manager) RemoveCover(fsSlug string, romID int) error {
	if m == nil || !m.initialized {
		return ErrNotInitialized
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.db.Exec(`
		DELETE FROM cover_metadata
		WHERE platform_fs_slug = ? AND rom_id = ?
	`, fsSlug, romID)
	if err != nil {
		return newCacheError("delete", fmt.Sprintf("%s/%d", fsSlug, romID), err)
	}
	return nil
}

// ValidateCovers drops rows whose file no longer exists on disk and
// returns how many were removed. Reconciliation deletes cover files
// directly, so the index must be re-checked after each cleanup.
func (m *Manager) ValidateCovers() (int, error) {
	if m == nil || !m.initialized {
		return 0, ErrNotInitialized
	}

	logger := slog.Default()

	m.mu.RLock()
	rows, err := m.db.Query(`SELECT platform_fs_slug, rom_id, file_path FROM cover_metadata`)
	m.mu.RUnlock()
	if err != nil {
		return 0, newCacheError("validate", "", err)
	}
	defer rows.Close()

	type staleRow struct {
		fsSlug string
		romID  int
	}
	var stale []staleRow

	for rows.Next() {
		var fsSlug, filePath string
		var romID int
		if err := rows.Scan(&fsSlug, &romID, &filePath); err != nil {
			continue
		}
		if _, err := os.Stat(filePath); err != nil {
			stale = append(stale, staleRow{fsSlug, romID})
		}
	}

	m.mu.Lock()
	for _, row := range stale {
		m.db.Exec(`
			DELETE FROM cover_metadata
			WHERE platform_fs_slug = ? AND rom_id = ?
		`, row.fsSlug, row.romID)
	}
	m.mu.Unlock()

	if len(stale) > 0 {
		logger.Debug("Removed stale cover cache entries", "count", len(stale))
	}
	return len(stale), nil
}

// CoverCount returns the number of indexed covers.
func (m *Manager) CoverCount() int {
	if m == nil || !m.initialized {
		return 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int
	m.db.QueryRow(`SELECT COUNT(*) FROM cover_metadata`).Scan(&count)
	return count
}
