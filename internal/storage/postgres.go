package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/faceforge/faceforge/internal/entitlement"
	"github.com/faceforge/faceforge/internal/logger"
)

// PostgresStore persists entitlement records as JSONB rows, one per user. It
// satisfies the same Store contract as the file store and is selected when a
// DSN is configured.
type PostgresStore struct {
	conn *sql.DB
}

// NewPostgresStore opens a connection and ensures the schema exists.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN cannot be empty")
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{conn: conn}
	if err := s.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	logger.InfoMsg("Database connection established successfully")
	return s, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *PostgresStore) initTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS entitlements (
		uid BIGINT PRIMARY KEY,
		record JSONB NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`

	_, err := s.conn.Exec(query)
	return err
}

// Load reads every entitlement record. Rows that fail to decode are skipped
// rather than failing the whole load.
func (s *PostgresStore) Load() (map[int64]*entitlement.Record, error) {
	rows, err := s.conn.Query(`SELECT uid, record FROM entitlements`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entitlements: %w", err)
	}
	defer rows.Close()

	table := make(map[int64]*entitlement.Record)
	for rows.Next() {
		var uid int64
		var raw []byte
		if err := rows.Scan(&uid, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan entitlement row: %w", err)
		}

		var rec entitlement.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			logger.Warn("Skipping undecodable entitlement record", map[string]interface{}{
				"uid":   uid,
				"error": err.Error(),
			})
			continue
		}
		table[uid] = &rec
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entitlement rows: %w", err)
	}

	return table, nil
}

// Save upserts every record in one transaction.
func (s *PostgresStore) Save(table map[int64]*entitlement.Record) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO entitlements (uid, record, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (uid) DO UPDATE SET record = $2, updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for uid, rec := range table {
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal record for uid %d: %w", uid, err)
		}
		if _, err := stmt.Exec(uid, raw); err != nil {
			return fmt.Errorf("failed to upsert record for uid %d: %w", uid, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit entitlement save: %w", err)
	}

	return nil
}
