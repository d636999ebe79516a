package dedupe

// Package dedupe provides shared in-process concurrency guards. Using a
// centralized singleflight.Group ensures that only one job runs for a given
// key while other callers wait for the result; the keyed locks serialize
// passes that must observe each other's writes.

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// ResolveGroup deduplicates turn resolution triggers keyed by
// "<battleUID>/<turn>". The storage-level version check remains the
// authoritative guard; this only avoids redundant in-process work.
var ResolveGroup singleflight.Group

var (
	pairMu    sync.Mutex
	pairLocks = map[string]*sync.Mutex{}
)

// PairLock serializes matchmaking passes for one region, so a pass always
// sees the dequeues of the pass before it. Blocks until the region lock is
// held and returns the unlock function.
func PairLock(region string) func() {
	pairMu.Lock()
	m, ok := pairLocks[region]
	if !ok {
		m = &sync.Mutex{}
		pairLocks[region] = m
	}
	pairMu.Unlock()
	m.Lock()
	return m.Unlock
}
