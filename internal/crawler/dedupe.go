package crawler

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DedupeIndex tracks file content hashes across crawls so identical files
// are extracted once. The index is a small sqlite database, so it
// persists between runs and can be shared by sequential crawls.
type DedupeIndex struct {
	db *sql.DB
}

// OpenDedupeIndex opens (or creates) the hash index at path.
func OpenDedupeIndex(path string) (*DedupeIndex, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open dedupe index: %w", err)
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS seen_files (
			file_hash TEXT PRIMARY KEY,
			first_path TEXT NOT NULL,
			seen_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create dedupe schema: %w", err)
	}
	return &DedupeIndex{db: db}, nil
}

// MarkSeen records hash and reports whether it was already present.
// The insert is atomic, so concurrent workers agree on the first writer.
func (d *DedupeIndex) MarkSeen(hash, path string) (bool, error) {
	res, err := d.db.Exec(
		`INSERT OR IGNORE INTO seen_files (file_hash, first_path) VALUES (?, ?)`,
		hash, path,
	)
	if err != nil {
		return false, fmt.Errorf("record hash: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Count reports how many distinct hashes are in the index.
func (d *DedupeIndex) Count() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM seen_files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count hashes: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (d *DedupeIndex) Close() error {
	return d.db.Close()
}
