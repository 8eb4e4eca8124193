package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated     uint64
	UsersUpdated     uint64
	UsersDeleted     uint64
	EmailConflicts   uint64
	UserCacheHits    uint64
	UserCacheMisses  uint64
	CacheEvictFails  uint64
	OperationsFailed map[string]uint64
}

// FailedOperations returns the operation names with failures, sorted.
func (s Snapshot) FailedOperations() []string {
	ops := make([]string, 0, len(s.OperationsFailed))
	for op := range s.OperationsFailed {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// InMemoryRecorder stores metrics in memory.
// It is safe for concurrent use.
type InMemoryRecorder struct {
	usersCreated    uint64
	usersUpdated    uint64
	usersDeleted    uint64
	emailConflicts  uint64
	userCacheHits   uint64
	userCacheMisses uint64
	cacheEvictFails uint64

	mu     sync.Mutex
	failed map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{failed: make(map[string]uint64)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	failed := make(map[string]uint64, len(m.failed))
	for op, n := range m.failed {
		failed[op] = n
	}
	m.mu.Unlock()

	return Snapshot{
		UsersCreated:     atomic.LoadUint64(&m.usersCreated),
		UsersUpdated:     atomic.LoadUint64(&m.usersUpdated),
		UsersDeleted:     atomic.LoadUint64(&m.usersDeleted),
		EmailConflicts:   atomic.LoadUint64(&m.emailConflicts),
		UserCacheHits:    atomic.LoadUint64(&m.userCacheHits),
		UserCacheMisses:  atomic.LoadUint64(&m.userCacheMisses),
		CacheEvictFails:  atomic.LoadUint64(&m.cacheEvictFails),
		OperationsFailed: failed,
	}
}

// IncUserCreated increments the created counter.
func (m *InMemoryRecorder) IncUserCreated() { atomic.AddUint64(&m.usersCreated, 1) }

// IncUserUpdated increments the updated counter.
func (m *InMemoryRecorder) IncUserUpdated() { atomic.AddUint64(&m.usersUpdated, 1) }

// IncUserDeleted increments the deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() { atomic.AddUint64(&m.usersDeleted, 1) }

// IncEmailConflict increments the duplicate email counter.
func (m *InMemoryRecorder) IncEmailConflict() { atomic.AddUint64(&m.emailConflicts, 1) }

// IncUserCacheHit increments the cache hit counter.
func (m *InMemoryRecorder) IncUserCacheHit() { atomic.AddUint64(&m.userCacheHits, 1) }

// IncUserCacheMiss increments the cache miss counter.
func (m *InMemoryRecorder) IncUserCacheMiss() { atomic.AddUint64(&m.userCacheMisses, 1) }

// IncUserCacheEvictFailed increments the failed invalidation counter.
func (m *InMemoryRecorder) IncUserCacheEvictFailed() { atomic.AddUint64(&m.cacheEvictFails, 1) }

// IncOperationFailed increments the failure counter for op.
func (m *InMemoryRecorder) IncOperationFailed(op string) {
	m.mu.Lock()
	m.failed[op]++
	m.mu.Unlock()
}
