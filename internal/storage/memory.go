package storage

import "sync"

// Memory is an in-process KV used for ephemeral sessions and tests.
// Nothing survives Close.
type Memory struct {
	mu      sync.RWMutex
	numbers map[string]float64
	bools   map[string]bool
	blobs   map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		numbers: make(map[string]float64),
		bools:   make(map[string]bool),
		blobs:   make(map[string][]byte),
	}
}

func (m *Memory) SetNumber(key string, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.numbers[key] = value
	return nil
}

func (m *Memory) Number(key string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.numbers[key]
	if !ok {
		return 0, ErrNotFound
	}
	return v, nil
}

func (m *Memory) SetBool(key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bools[key] = value
	return nil
}

func (m *Memory) Bool(key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.bools[key]
	if !ok {
		return false, ErrNotFound
	}
	return v, nil
}

func (m *Memory) SetBytes(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(value))
	copy(buf, value)
	m.blobs[key] = buf
	return nil
}

func (m *Memory) Bytes(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	buf := make([]byte, len(v))
	copy(buf, v)
	return buf, nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.numbers, key)
	delete(m.bools, key)
	delete(m.blobs, key)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
