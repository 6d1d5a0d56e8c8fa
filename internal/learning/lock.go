package learning

import "sync"

// mutexMap hands out one mutex per plan ID so lifecycle operations for
// the same plan serialize while different plans proceed independently.
type mutexMap struct {
	mu      sync.Mutex
	mutexes map[string]*sync.Mutex
}

func newMutexMap() *mutexMap {
	return &mutexMap{
		mutexes: make(map[string]*sync.Mutex),
	}
}

func (m *mutexMap) Lock(key string) {
	m.get(key).Lock()
}

func (m *mutexMap) Unlock(key string) {
	m.get(key).Unlock()
}

func (m *mutexMap) get(key string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mu, ok := m.mutexes[key]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	m.mutexes[key] = mu
	return mu
}
