package session

import (
	"context"
	"encoding/json"
	"fmt"
)

// PushTokenKey holds the device's FCM registration next to its session
const PushTokenKey = "fcm_token"

// PushToken is a device's Firebase Cloud Messaging registration
type PushToken struct {
	Token      string `json:"token"`
	DeviceType string `json:"device_type"`
}

// SavePushToken records the device's FCM token, replacing any older one
func (s *Store) SavePushToken(ctx context.Context, tok PushToken) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode push token: %w", err)
	}
	return s.kv.Set(ctx, PushTokenKey, string(data))
}

// PushToken returns the device's FCM token, or nil when none is registered
func (s *Store) PushToken(ctx context.Context) (*PushToken, error) {
	raw, found, err := s.kv.Get(ctx, PushTokenKey)
	if err != nil || !found {
		return nil, err
	}

	var tok PushToken
	if err := json.Unmarshal([]byte(raw), &tok); err != nil {
		return nil, fmt.Errorf("failed to decode push token: %w", err)
	}
	return &tok, nil
}
