package session

import (
	"context"
	"encoding/json"
	"fmt"

	"pitfinder-backend/internal/models"
)

// Store reads and writes the session record through a KV
type Store struct {
	kv KV
}

// NewStore wraps a device's key-value store
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Load returns the stored session, or nil when there is none
func (s *Store) Load(ctx context.Context) (*models.Session, error) {
	raw, found, err := s.kv.Get(ctx, models.SessionKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// Save writes the session record
func (s *Store) Save(ctx context.Context, sess models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.kv.Set(ctx, models.SessionKey, string(data))
}

// Clear removes the session record (logout)
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Remove(ctx, models.SessionKey)
}
