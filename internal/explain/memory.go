package explain

import "sync"

// MemoryCache is an in-memory CacheStore, used by tests and when persistent
// storage is disabled.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

var _ CacheStore = (*MemoryCache)(nil)

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]string)}
}

func (m *MemoryCache) GetExplanation(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryCache) PutExplanation(key, explanation string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = explanation
	return nil
}
