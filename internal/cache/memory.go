package cache

import (
	"container/list"
	"context"
	"sync"

	"github.com/AGC-Technical-Team/CultureBot/internal/metrics"
)

type memoryEntry struct {
	question string
	answer   string
}

// Memory is a thread-safe bounded in-process cache with least-recently-used
// eviction. Entries have no expiry; they live until evicted under capacity
// pressure or until the process exits.
type Memory struct {
	mu        sync.Mutex
	capacity  int
	items     map[string]*list.Element
	evictList *list.List
}

// NewMemory creates an in-process LRU cache holding at most capacity entries.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
	}
}

// Get returns the cached answer for question. A hit counts as a use and
// refreshes the entry's recency.
func (m *Memory) Get(_ context.Context, question string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[question]
	if !ok {
		metrics.CacheOperations.WithLabelValues("memory", "get", "miss").Inc()
		return "", false
	}

	m.evictList.MoveToFront(elem)
	metrics.CacheOperations.WithLabelValues("memory", "get", "hit").Inc()
	return elem.Value.(*memoryEntry).answer, true
}

// Set stores the answer for question, evicting the least-recently-used entry
// when the cache is full. A repeated Set overwrites the answer and refreshes
// recency.
func (m *Memory) Set(_ context.Context, question, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.items[question]; ok {
		m.evictList.MoveToFront(elem)
		elem.Value.(*memoryEntry).answer = answer
		metrics.CacheOperations.WithLabelValues("memory", "set", "ok").Inc()
		return
	}

	if m.evictList.Len() >= m.capacity {
		m.removeOldest()
	}

	elem := m.evictList.PushFront(&memoryEntry{question: question, answer: answer})
	m.items[question] = elem
	metrics.CacheOperations.WithLabelValues("memory", "set", "ok").Inc()
}

// Len returns the number of entries currently in the cache.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evictList.Len()
}

func (m *Memory) removeOldest() {
	elem := m.evictList.Back()
	if elem == nil {
		return
	}
	m.evictList.Remove(elem)
	delete(m.items, elem.Value.(*memoryEntry).question)
	metrics.CacheOperations.WithLabelValues("memory", "evict", "ok").Inc()
}
