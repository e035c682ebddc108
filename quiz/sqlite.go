package quiz

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists one profile blob per player in a sqlite database.
// The blob format matches ProfileKey's schema version; old rows decode
// through the same tolerant loader as every other source.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the profile database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open profile db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping profile db: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS profiles (
		player_id  TEXT NOT NULL,
		schema_key TEXT NOT NULL,
		data       TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (player_id, schema_key)
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create profiles table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(playerID string) *Profile {
	var data []byte
	err := s.db.QueryRow(
		`SELECT data FROM profiles WHERE player_id = ? AND schema_key = ?`,
		playerID, ProfileKey,
	).Scan(&data)
	if err != nil {
		// No row and read failure both degrade to defaults, same as a
		// corrupt blob.
		return DefaultProfile()
	}
	return DecodeProfile(data)
}

func (s *SQLiteStore) Save(playerID string, p *Profile) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO profiles (player_id, schema_key, data, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (player_id, schema_key)
		 DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		playerID, ProfileKey, data,
	)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
