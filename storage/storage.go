package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one confirmed publish in the play history. The history is a
// write-ahead log: rows are only ever appended.
type Record struct {
	ID         int64
	RecordedAt int64 // Unix timestamp of the publish
	SpinID     string
	DJ         string
	Song       string
	Artist     string
	Album      string
	AlbumArt   string
}

// Store provides SQLite-backed persistence for the play history.
type Store struct {
	db *sql.DB
}

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS playlist (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at INTEGER NOT NULL,
	spin_id TEXT NOT NULL,
	dj TEXT,
	song TEXT,
	artist TEXT,
	album TEXT,
	album_art TEXT
);

CREATE INDEX IF NOT EXISTS idx_playlist_recorded_at ON playlist(recorded_at DESC);
CREATE INDEX IF NOT EXISTS idx_playlist_dj ON playlist(dj);
`

// New opens the SQLite database at dbPath, creates tables if they don't
// exist, and returns a Store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: set WAL mode: %w", err)
	}

	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append adds one history row. The history has no update or delete path.
func (s *Store) Append(r *Record) error {
	res, err := s.db.Exec(
		`INSERT INTO playlist (recorded_at, spin_id, dj, song, artist, album, album_art)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RecordedAt, r.SpinID, r.DJ, r.Song, r.Artist, r.Album, r.AlbumArt,
	)
	if err != nil {
		return fmt.Errorf("storage: append spin %q: %w", r.SpinID, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		r.ID = id
	}
	return nil
}

// SongsByDJ returns history rows for the given DJ recorded at or after since,
// ordered by time ascending.
func (s *Store) SongsByDJ(dj string, since time.Time) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT id, recorded_at, spin_id, dj, song, artist, album, album_art
		 FROM playlist WHERE dj = ? AND recorded_at >= ? ORDER BY recorded_at ASC, id ASC`,
		dj, since.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: songs by dj %q: %w", dj, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.RecordedAt, &r.SpinID, &r.DJ, &r.Song, &r.Artist, &r.Album, &r.AlbumArt); err != nil {
			return nil, fmt.Errorf("storage: scan history row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate history rows: %w", err)
	}
	return records, nil
}

// LastPlayed returns the most recently recorded publish, or nil if the
// history is empty.
func (s *Store) LastPlayed() (*Record, error) {
	var r Record
	err := s.db.QueryRow(
		`SELECT id, recorded_at, spin_id, dj, song, artist, album, album_art
		 FROM playlist ORDER BY recorded_at DESC, id DESC LIMIT 1`,
	).Scan(&r.ID, &r.RecordedAt, &r.SpinID, &r.DJ, &r.Song, &r.Artist, &r.Album, &r.AlbumArt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: last played: %w", err)
	}
	return &r, nil
}
