package listing

import (
	"errors"
	"sync"
	"time"
)

var ErrSuperseded = errors.New("a newer query for this view was issued")

// Controller is the query state of one list view of one session.
type Controller[T any] struct {
	mu     sync.Mutex
	facets Facets
	page   int
	seq    uint64
	items  []T
	used   time.Time
}

func NewController[T any]() *Controller[T] {
	return &Controller[T]{
		facets: Facets{}.Normalize(),
		page:   1,
	}
}

func (c *Controller[T]) Facets() Facets {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.facets
}

func (c *Controller[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.page
}

// SetFacets stores f and reports whether any facet changed. A change always
// sends the view back to page 1.
func (c *Controller[T]) SetFacets(f Facets) bool {
	f = f.Normalize()

	c.mu.Lock()
	defer c.mu.Unlock()

	if f == c.facets {
		return false
	}
	c.facets = f
	c.page = 1

	return true
}

func (c *Controller[T]) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.page = max(1, page)
}

// Apply is SetFacets followed by SetPage, where the requested page only
// counts when the facets did not change.
func (c *Controller[T]) Apply(f Facets, page int) {
	if changed := c.SetFacets(f); !changed && page > 0 {
		c.SetPage(page)
	}
}

// Begin tags a new fetch for this view. Only the latest tag may commit.
func (c *Controller[T]) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++

	return c.seq
}

// Commit replaces the collection with items if seq is the latest fetch
// issued, and returns ErrSuperseded otherwise.
func (c *Controller[T]) Commit(seq uint64, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		return ErrSuperseded
	}
	c.items = items

	return nil
}

// CommitView is Commit followed by View under one lock, so the page returned
// is cut from items and never from a later query's collection.
func (c *Controller[T]) CommitView(seq uint64, items []T, size int) (PageView[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		return PageView[T]{}, ErrSuperseded
	}
	c.items = items

	v := Paginate(items, c.page, size)
	c.page = v.Page

	return v, nil
}

func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.items
}

func (c *Controller[T]) touch(now time.Time) {
	c.mu.Lock()
	c.used = now
	c.mu.Unlock()
}

func (c *Controller[T]) lastUsed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.used
}
