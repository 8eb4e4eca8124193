// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// User lifecycle
	IncUserCreated()
	IncUserUpdated()
	IncUserDeleted()

	// Create attempts rejected because the email was taken
	IncEmailConflict()

	// Get-by-id read cache
	IncUserCacheHit()
	IncUserCacheMiss()
	// Invalidations that failed after a committed write; the entry may be stale until its TTL
	IncUserCacheEvictFailed()

	// Operations that ended in an unexpected error, by operation name
	IncOperationFailed(op string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
