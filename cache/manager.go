// Package cache tracks which covers have already been downloaded so sync
// passes can skip re-fetching art. The index is advisory: its absence or
// failure never aborts a sync, and rows are validated against disk after
// reconciliation deletes files underneath it.
package cache

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Manager wraps the SQLite cover index.
type Manager struct {
	db          *sql.DB
	dbPath      string
	mu          sync.RWMutex
	initialized bool
}

// DefaultDBPath returns the cover index location under the working
// directory's cache dir.
func DefaultDBPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return filepath.Join(os.TempDir(), ".cache", "rommsync.db")
	}
	return filepath.Join(wd, ".cache", "rommsync.db")
}

// Open creates or opens the cover index at dbPath.
func Open(dbPath string) (*Manager, error) {
	logger := slog.Default()

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, newCacheError("init", "", err)
	}

	// WAL mode for cheap reads; SQLite is single-writer so cap connections.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, newCacheError("init", "", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, newCacheError("init", "", err)
	}

	logger.Debug("Cover cache opened", "path", dbPath)
	return &Manager{db: db, dbPath: dbPath, initialized: true}, nil
}

func (m *Manager) Close() error {
	if m == nil || m.db == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.initialized = false
	return m.db.Close()
}

// Clear removes all cached rows but keeps the database structure.
func (m *Manager) Clear() error {
	if m == nil || !m.initialized {
		return ErrNotInitialized
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.db.Exec("DELETE FROM cover_metadata"); err != nil {
		return newCacheError("clear", "", err)
	}
	return nil
}
