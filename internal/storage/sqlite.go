package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hammamikhairi/hearthcook/internal/domain"
	"github.com/hammamikhairi/hearthcook/internal/logger"
)

// Compile-time interface check.
var _ domain.SettingsStore = (*SQLiteStore)(nil)

// SQLiteStore persists settings as a single JSON blob in a one-row
// table. The engine's durable state is one small document, so a
// key-value row beats a normalized schema.
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS settings (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	payload    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// OpenSQLite opens (creating if needed) the settings database at path.
func OpenSQLite(path string, log *logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening settings db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing settings schema: %w", err)
	}

	log.Info("settings db open at %s", path)
	return &SQLiteStore{db: db, log: log}, nil
}

// Load reads the settings row. A missing row is an empty Settings, not
// an error; first run looks exactly like a wiped save.
func (s *SQLiteStore) Load(ctx context.Context) (domain.Settings, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM settings WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Settings{}, nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("loading settings: %w", err)
	}

	var out domain.Settings
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		// A corrupt save is degraded durability, not a dead engine.
		s.log.Error("settings payload corrupt, starting fresh: %v", err)
		return domain.Settings{}, nil
	}
	return out, nil
}

// Save upserts the settings row.
func (s *SQLiteStore) Save(ctx context.Context, settings domain.Settings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	s.log.Debug("settings saved (%d bytes)", len(payload))
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
