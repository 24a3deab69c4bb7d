package session

import (
	"context"
	"sync"
)

// KV is a persistent key-value store belonging to one device
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend hands out the key-value store of a device
type Backend interface {
	Device(deviceID string) KV
}

// MemoryBackend keeps every device's values in process memory.
// Used in tests and when no database is configured.
type MemoryBackend struct {
	mu      sync.RWMutex
	devices map[string]map[string]string
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{devices: make(map[string]map[string]string)}
}

// Device returns the store for deviceID
func (b *MemoryBackend) Device(deviceID string) KV {
	return &memoryKV{backend: b, deviceID: deviceID}
}

type memoryKV struct {
	backend  *MemoryBackend
	deviceID string
}

func (m *memoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	m.backend.mu.RLock()
	defer m.backend.mu.RUnlock()
	value, ok := m.backend.devices[m.deviceID][key]
	return value, ok, nil
}

func (m *memoryKV) Set(ctx context.Context, key, value string) error {
	m.backend.mu.Lock()
	defer m.backend.mu.Unlock()
	values, ok := m.backend.devices[m.deviceID]
	if !ok {
		values = make(map[string]string)
		m.backend.devices[m.deviceID] = values
	}
	values[key] = value
	return nil
}

func (m *memoryKV) Remove(ctx context.Context, key string) error {
	m.backend.mu.Lock()
	defer m.backend.mu.Unlock()
	delete(m.backend.devices[m.deviceID], key)
	return nil
}
