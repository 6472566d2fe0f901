package service

import (
	"context"
	"sort"
	"sync"
)

// ExportedRunGuard is an exported alias so _test packages can test the guard.
type ExportedRunGuard = runGuard

// ─────────────────────────────────────────────────────────────
// runGuard: one pipeline run per key at a time
// ─────────────────────────────────────────────────────────────

// runGuard rejects a second run under a key that is already held. The
// pipeline takes a single key for every store-touching operation, which
// keeps the store single-writer.
type runGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// TryLock marks key as running. It returns false when key is already held.
func (g *runGuard) TryLock(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[key]; ok {
		return false
	}
	g.running[key] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock releases key. Must follow a successful TryLock.
func (g *runGuard) Unlock(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, key)
	g.wg.Done()
}

// Running lists the held keys in sorted order.
func (g *runGuard) Running() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	keys := make([]string, 0, len(g.running))
	for k := range g.running {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WaitAll blocks until every held key is released or ctx is cancelled.
func (g *runGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
