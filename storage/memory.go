package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// MemoryEntry is one persistent key/value fact about a user.
type MemoryEntry struct {
	UserID    string    `json:"user_id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// MemoryStore persists copilot memory in SQLite, keyed by the unique
// (user_id, key) pair.
type MemoryStore struct {
	db *sql.DB
}

// NewMemoryStore opens (creating if needed) the memory database at dbPath.
func NewMemoryStore(dbPath string) (*MemoryStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &MemoryStore{db: db}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (ms *MemoryStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memory_store (
		user_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		PRIMARY KEY (user_id, key)
	);
	CREATE INDEX IF NOT EXISTS idx_memory_user ON memory_store(user_id, timestamp);
	`

	_, err := ms.db.Exec(schema)
	return err
}

// Upsert stores or replaces the value for (userID, key).
func (ms *MemoryStore) Upsert(userID, key, value string) error {
	_, err := ms.db.Exec(`
		INSERT INTO memory_store (user_id, key, value, timestamp)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET
			value = excluded.value,
			timestamp = excluded.timestamp
	`, userID, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert memory: %w", err)
	}
	return nil
}

// Get returns the entry for (userID, key), or nil when absent.
func (ms *MemoryStore) Get(userID, key string) (*MemoryEntry, error) {
	row := ms.db.QueryRow(`
		SELECT value, timestamp FROM memory_store
		WHERE user_id = ? AND key = ?
	`, userID, key)

	entry := MemoryEntry{UserID: userID, Key: key}
	err := row.Scan(&entry.Value, &entry.Timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read memory: %w", err)
	}
	return &entry, nil
}

// List returns all of a user's entries, newest first.
func (ms *MemoryStore) List(userID string) ([]MemoryEntry, error) {
	rows, err := ms.db.Query(`
		SELECT key, value, timestamp FROM memory_store
		WHERE user_id = ?
		ORDER BY timestamp DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memory: %w", err)
	}
	defer rows.Close()

	var entries []MemoryEntry
	for rows.Next() {
		entry := MemoryEntry{UserID: userID}
		if err := rows.Scan(&entry.Key, &entry.Value, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan memory row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Delete removes the entry for (userID, key). Deleting an absent key is
// not an error.
func (ms *MemoryStore) Delete(userID, key string) error {
	_, err := ms.db.Exec(`
		DELETE FROM memory_store WHERE user_id = ? AND key = ?
	`, userID, key)
	if err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
	}
	return nil
}

// ExecuteSQL runs an arbitrary statement and renders the result set as
// indented JSON. Privileged escape hatch for the SQL tool.
func (ms *MemoryStore) ExecuteSQL(query string) (string, error) {
	rows, err := ms.db.Query(query)
	if err != nil {
		return "", fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return renderRows(rows)
}

// ListTables returns the user tables in the database as indented JSON.
func (ms *MemoryStore) ListTables() (string, error) {
	rows, err := ms.db.Query(`
		SELECT name, type FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return "", fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	return renderRows(rows)
}

func renderRows(rows *sql.Rows) (string, error) {
	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("failed to read columns: %w", err)
	}

	var records []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return "", fmt.Errorf("failed to scan row: %w", err)
		}

		record := make(map[string]any, len(columns))
		for i, col := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			record[col] = v
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal rows: %w", err)
	}
	return string(data), nil
}

// Close releases the underlying database handle.
func (ms *MemoryStore) Close() error {
	return ms.db.Close()
}
