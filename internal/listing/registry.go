package listing

import (
	"sync"
	"time"
)

type registryKey struct {
	session string
	view    string
}

// Registry keeps one Controller per (session, view) and forgets controllers
// that were not used for longer than the idle TTL.
type Registry[T any] struct {
	mu          sync.Mutex
	idle        time.Duration
	now         func() time.Time
	controllers map[registryKey]*Controller[T]
}

// NewRegistry returns a registry; a zero idle TTL keeps controllers until
// their session is dropped.
func NewRegistry[T any](idle time.Duration) *Registry[T] {
	return &Registry[T]{
		idle:        idle,
		now:         time.Now,
		controllers: make(map[registryKey]*Controller[T]),
	}
}

func (r *Registry[T]) Get(session, view string) *Controller[T] {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evict(now)

	k := registryKey{session: session, view: view}
	c, ok := r.controllers[k]
	if !ok {
		c = NewController[T]()
		r.controllers[k] = c
	}
	c.touch(now)

	return c
}

// Drop forgets every view of session.
func (r *Registry[T]) Drop(session string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k := range r.controllers {
		if k.session == session {
			delete(r.controllers, k)
		}
	}
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.controllers)
}

func (r *Registry[T]) evict(now time.Time) {
	if r.idle <= 0 {
		return
	}
	for k, c := range r.controllers {
		if now.Sub(c.lastUsed()) > r.idle {
			delete(r.controllers, k)
		}
	}
}
