package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLBackend stores device values in the device_kv table.
// Queries are written with ? and rebound for the driver, so the same
// code serves Postgres (lib/pq or pgx) and SQLite.
type SQLBackend struct {
	db *sqlx.DB
}

// NewSQLBackend wraps a migrated database
func NewSQLBackend(db *sqlx.DB) *SQLBackend {
	return &SQLBackend{db: db}
}

// Device returns the store for deviceID
func (b *SQLBackend) Device(deviceID string) KV {
	return &sqlKV{db: b.db, deviceID: deviceID}
}

type sqlKV struct {
	db       *sqlx.DB
	deviceID string
}

func (s *sqlKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	query := s.db.Rebind(`SELECT item_value FROM device_kv WHERE device_id = ? AND item_key = ?`)
	err := s.db.GetContext(ctx, &value, query, s.deviceID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *sqlKV) Set(ctx context.Context, key, value string) error {
	query := s.db.Rebind(`
		INSERT INTO device_kv (device_id, item_key, item_value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (device_id, item_key)
		DO UPDATE SET item_value = excluded.item_value, updated_at = excluded.updated_at
	`)
	if _, err := s.db.ExecContext(ctx, query, s.deviceID, key, value, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *sqlKV) Remove(ctx context.Context, key string) error {
	query := s.db.Rebind(`DELETE FROM device_kv WHERE device_id = ? AND item_key = ?`)
	if _, err := s.db.ExecContext(ctx, query, s.deviceID, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
