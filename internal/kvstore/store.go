// Package kvstore is the key-value persistence collaborator of the dashboard:
// string keys, string values, synchronous reads and writes, no transactions.
package kvstore

import (
	"fmt"
	"maps"
	"sync"
)

// Store reads and writes small values such as dismissed-banner flags and
// user preferences.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
}

// Error wraps a failed read or write. Callers surface it as a non-fatal
// notification and leave their own state unchanged.
type Error struct {
	Op    string // "get" or "set"
	Key   string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("kvstore %s %q: %v", e.Op, e.Key, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Memory is a Store kept in a map. Safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get implements Store.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Store.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Snapshot returns a copy of every stored pair.
func (m *Memory) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.values)
}
