package kv

import "sync"

type memory struct {
	sync.RWMutex
	values map[string][]byte
}

// NewMemory returns a Store that lives in memory.
func NewMemory() Store {
	return &memory{values: map[string][]byte{}}
}

func (m *memory) Set(key string, value []byte) error {
	m.Lock()
	defer m.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *memory) Get(key string) ([]byte, error) {
	m.RLock()
	defer m.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (m *memory) Remove(key string) error {
	m.Lock()
	defer m.Unlock()

	delete(m.values, key)
	return nil
}

func (m *memory) Close() error {
	return nil
}
