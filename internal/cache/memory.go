package cache

import (
	"sync"

	"statdemo/domain/scenario"
)

// Memory is an append-only in-process sample cache. There is no eviction:
// the key space (two scenarios, a handful of sizes and seeds) is small.
type Memory struct {
	mu      sync.RWMutex
	samples map[scenario.Key]*scenario.Sample
}

// NewMemory creates an empty cache
func NewMemory() *Memory {
	return &Memory{samples: make(map[scenario.Key]*scenario.Sample)}
}

func (m *Memory) Get(key scenario.Key) (*scenario.Sample, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.samples[key]
	return s, ok
}

// PutIfAbsent keeps the first sample stored for a key.
func (m *Memory) PutIfAbsent(key scenario.Key, s *scenario.Sample) *scenario.Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.samples[key]; ok {
		return existing
	}
	m.samples[key] = s
	return s
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.samples)
}

// Reset drops everything. Meant for tests and long-running servers that
// want to release memory.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = make(map[scenario.Key]*scenario.Sample)
}
