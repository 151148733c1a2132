package action

import (
	"sync"
	"time"
)

// ViewKey identifies one open screen of one user.
type ViewKey struct {
	UserID string
	ViewID string
}

// ManagerFactory builds the Manager of a newly opened view.
type ManagerFactory func(key ViewKey, page string) *Manager

type viewEntry struct {
	manager  *Manager
	lastSeen time.Time
}

// Registry keeps one Manager per open view, so that in-flight state lives as long as the screen.
type Registry struct {
	newManager ManagerFactory
	ttl        time.Duration
	now        func() time.Time

	mutex sync.Mutex
	views map[ViewKey]*viewEntry
}

// NewRegistry returns a Registry whose idle views expire after ttl (never when ttl is zero).
func NewRegistry(factory ManagerFactory, ttl time.Duration) *Registry {
	return &Registry{
		newManager: factory,
		ttl:        ttl,
		now:        time.Now,
		views:      make(map[ViewKey]*viewEntry),
	}
}

// Manager returns the Manager of key, opening the view on page if needed.
func (r *Registry) Manager(key ViewKey, page string) *Manager {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry, ok := r.views[key]
	if !ok {
		entry = &viewEntry{manager: r.newManager(key, page)}
		r.views[key] = entry
	}
	entry.lastSeen = r.now()
	return entry.manager
}

// Lookup returns the Manager of key if the view is open.
func (r *Registry) Lookup(key ViewKey) (*Manager, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry, ok := r.views[key]
	if !ok {
		return nil, false
	}
	return entry.manager, true
}

// Release closes the view. Actions in flight run to completion on the detached Manager.
func (r *Registry) Release(key ViewKey) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	_, ok := r.views[key]
	delete(r.views, key)
	return ok
}

// Sweep closes the views idle for longer than the ttl that have nothing in flight.
// It returns how many views were closed.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var n int
	deadline := r.now().Add(-r.ttl)
	for key, entry := range r.views {
		if entry.lastSeen.Before(deadline) && entry.manager.guard.Len() == 0 {
			delete(r.views, key)
			n++
		}
	}
	return n
}

// Len returns the number of open views.
func (r *Registry) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return len(r.views)
}
