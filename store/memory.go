package store

import (
	"sort"
	"sync"
)

// memoryTables lets separate opens of the same name within one process see
// the same data, the way files do for the other backends.
var memoryTables sync.Map // map[string]*memoryData

type memoryData struct {
	mu      sync.RWMutex
	entries map[string][]byte
	writing bool
}

type memoryBackend struct {
	data     *memoryData
	readOnly bool
	closed   bool
}

func openMemory(name string, mode Mode) (*memoryBackend, error) {
	v, _ := memoryTables.LoadOrStore(name, &memoryData{entries: make(map[string][]byte)})
	data := v.(*memoryData)

	data.mu.Lock()
	defer data.mu.Unlock()
	if data.writing {
		return nil, ErrLocked
	}
	if mode == ModeCreate {
		data.writing = true
	}
	return &memoryBackend{data: data, readOnly: mode != ModeCreate}, nil
}

func (m *memoryBackend) Get(key string) ([]byte, bool, error) {
	if m.closed {
		return nil, false, ErrClosed
	}
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	v, ok := m.data.entries[key]
	return v, ok, nil
}

func (m *memoryBackend) Has(key string) (bool, error) {
	_, ok, err := m.Get(key)
	return ok, err
}

func (m *memoryBackend) Put(entries map[string][]byte) error {
	if m.closed {
		return ErrClosed
	}
	if m.readOnly {
		return ErrReadOnly
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	for k, v := range entries {
		m.data.entries[k] = v
	}
	return nil
}

func (m *memoryBackend) Keys() ([]string, error) {
	if m.closed {
		return nil, ErrClosed
	}
	m.data.mu.RLock()
	defer m.data.mu.RUnlock()
	keys := make([]string, 0, len(m.data.entries))
	for k := range m.data.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memoryBackend) Clear() error {
	if m.readOnly {
		return ErrReadOnly
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	m.data.entries = make(map[string][]byte)
	return nil
}

func (m *memoryBackend) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	if !m.readOnly {
		m.data.mu.Lock()
		m.data.writing = false
		m.data.mu.Unlock()
	}
	return nil
}

// DropMemory forgets a named in-memory table.
func DropMemory(name string) {
	memoryTables.Delete(name)
}
