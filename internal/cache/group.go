package cache

import (
	"context"
	"sync"
)

// Group collects the per-prefix stores behind one administration surface:
// a single clear or stats call fans out across every registered store.
type Group struct {
	mu     sync.RWMutex
	stores map[string]Store
}

func NewGroup() *Group {
	return &Group{stores: make(map[string]Store)}
}

// Register adds a named store. Registering an existing name replaces it.
func (g *Group) Register(name string, store Store) {
	g.mu.Lock()
	g.stores[name] = store
	g.mu.Unlock()
}

// Has reports whether a store is registered under name.
func (g *Group) Has(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.stores[name]
	return ok
}

// Clear empties the named store, or every store when scope is empty.
// Returns how many entries were removed in total.
func (g *Group) Clear(ctx context.Context, scope string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	removed := 0
	for name, store := range g.stores {
		if scope != "" && name != scope {
			continue
		}
		removed += store.Clear(ctx, "")
	}
	return removed
}

// Stats reports each store's contents keyed by its registered name,
// restricted to one store when scope is given.
func (g *Group) Stats(ctx context.Context, scope string) map[string]Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := make(map[string]Stats, len(g.stores))
	for name, store := range g.stores {
		if scope != "" && name != scope {
			continue
		}
		stats[name] = store.Stats(ctx)
	}
	return stats
}
