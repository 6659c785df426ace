package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"atrad-tracker/internal/models"
)

// SQLiteStore implements SplitStore using SQLite. State lives in a single
// key-value table with JSON values, so adding persisted state later is a
// new key, not a migration.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	_, err := s.db.Exec(schema)
	return err
}

// LoadSplits reads the persisted stock splits. A missing key means no
// splits have been saved yet and yields an empty list, not an error.
func (s *SQLiteStore) LoadSplits(ctx context.Context) ([]models.StockSplit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM app_state WHERE key = ?", SplitsKey).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return []models.StockSplit{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading splits: %w", err)
	}

	var splits []models.StockSplit
	if err := json.Unmarshal([]byte(value), &splits); err != nil {
		return nil, fmt.Errorf("decoding splits: %w", err)
	}
	return splits, nil
}

// SaveSplits writes the full split list, replacing whatever was stored.
func (s *SQLiteStore) SaveSplits(ctx context.Context, splits []models.StockSplit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := json.Marshal(splits)
	if err != nil {
		return fmt.Errorf("encoding splits: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		SplitsKey, string(value))
	if err != nil {
		return fmt.Errorf("saving splits: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
