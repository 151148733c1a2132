package action

import (
	"sort"
	"sync"
)

// Guard tracks the event ids currently being processed.
type Guard struct {
	mutex    sync.RWMutex
	inFlight map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{inFlight: make(map[string]struct{})}
}

func (g *Guard) IsProcessing(id string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	_, ok := g.inFlight[id]
	return ok
}

// Begin marks id as in flight. It reports false, leaving the guard untouched, when id already is.
func (g *Guard) Begin(id string) bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.inFlight[id]; ok {
		return false
	}
	g.inFlight[id] = struct{}{}
	return true
}

// End clears id. Every successful Begin must be paired with exactly one End.
func (g *Guard) End(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	delete(g.inFlight, id)
}

// InFlight returns the sorted ids being processed.
func (g *Guard) InFlight() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	ids := make([]string, 0, len(g.inFlight))
	for id := range g.inFlight {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns how many ids are being processed.
func (g *Guard) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	return len(g.inFlight)
}
