// Package sync holds one synchronizer per aggregate, each implementing
// the same contract: mutate the remote first, then reconcile the local
// cache from the response. Which buckets a mutation invalidates is
// declared here, inside the synchronizer, never left to the caller.
package sync

import (
	"log/slog"
	"sync"
)

// guard fences overlapping edits of one entity. Every mutation takes a
// fresh generation for the entity's id; a response whose generation is
// no longer current belongs to an older edit and is dropped instead of
// overwriting newer cache state.
type guard struct {
	mu   sync.Mutex
	gens map[int64]uint64
}

func (g *guard) begin(id int64) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gens == nil {
		g.gens = make(map[int64]uint64)
	}
	g.gens[id]++
	return g.gens[id]
}

// stale reports whether gen is no longer the entity's current
// generation.
func (g *guard) stale(id int64, gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gens[id] != gen
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
