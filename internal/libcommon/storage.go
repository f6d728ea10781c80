package libcommon

import "sync"

// Storage is the key/value store holding the token and user-info slots.
// Missing keys read as "".
type Storage interface {
	GetItem(key string) (string, error)
	RemoveItem(key string) error
}

// Navigator performs the full reload that follows an expired session.
type Navigator interface {
	Reload()
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) Reload() {
	if f != nil {
		f()
	}
}

type noopNavigator struct{}

func (noopNavigator) Reload() {}

// MemoryStorage is a process-local Storage. The zero value is ready to use.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

func (m *MemoryStorage) GetItem(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items[key], nil
}

// SetItem stores value under key.
func (m *MemoryStorage) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[string]string)
	}
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
