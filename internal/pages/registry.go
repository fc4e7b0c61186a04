// Package pages tracks mounted page instances. Every full-page render mounts a
// fresh instance with default view state; HTMX requests address it by id.
// A reload therefore starts from defaults, and idle instances are swept.
package pages

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uniceg/eunice-dev/internal/content"
	"github.com/uniceg/eunice-dev/internal/logger"
	"github.com/uniceg/eunice-dev/internal/viewstate"
)

var (
	// ErrUnknownRoute is returned when mounting a path that is not a page.
	ErrUnknownRoute = errors.New("unknown route")
	// ErrPageGone is returned for ids that were never mounted or were swept.
	ErrPageGone = errors.New("page instance gone")
	// ErrNoController is returned when a page lacks the requested widget,
	// for example a tab switch on the contact page.
	ErrNoController = errors.New("page has no such control")
)

// Options configures a Registry.
type Options struct {
	Content          *content.Content
	Clock            viewstate.Clock
	Sender           viewstate.Sender
	GreetingInterval time.Duration
	// MaxPages caps mounted instances. Mounting past it evicts the least
	// recently seen instance. Zero means no cap.
	MaxPages int
	Logger   *logger.Logger
}

// Registry owns every mounted Instance.
type Registry struct {
	opts  Options
	mu    sync.Mutex
	pages map[string]*Instance
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.Clock == nil {
		opts.Clock = viewstate.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Registry{opts: opts, pages: make(map[string]*Instance)}
}

// Mount creates a new instance for route with default state.
func (r *Registry) Mount(route string) (*Instance, error) {
	if !viewstate.KnownRoute(route) {
		return nil, fmt.Errorf("%q: %w", route, ErrUnknownRoute)
	}

	inst, err := newInstance(uuid.NewString(), route, r.opts.Content, r.opts.Clock, r.opts.Sender)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	inst.cancel = cancel

	r.mu.Lock()
	evicted := r.evictLocked()
	r.pages[inst.ID] = inst
	r.mu.Unlock()

	for _, old := range evicted {
		old.cancel()
		r.opts.Logger.WithFields(map[string]any{"page": old.ID}).Debug("page evicted")
	}

	if route == "/" && r.opts.GreetingInterval > 0 {
		refresher := viewstate.NewRefresher(r.opts.Clock, r.opts.GreetingInterval, inst.refreshGreeting, nil)
		go refresher.Run(ctx)
	}

	r.opts.Logger.WithFields(map[string]any{"page": inst.ID, "route": route}).Debug("page mounted")
	return inst, nil
}

// evictLocked drops least recently seen instances until one more fits under
// MaxPages. Callers hold r.mu and must cancel the returned instances.
func (r *Registry) evictLocked() []*Instance {
	if r.opts.MaxPages <= 0 {
		return nil
	}
	var evicted []*Instance
	for len(r.pages) >= r.opts.MaxPages {
		var oldest *Instance
		var oldestSeen time.Time
		for _, inst := range r.pages {
			seen := inst.idleSince()
			if oldest == nil || seen.Before(oldestSeen) {
				oldest, oldestSeen = inst, seen
			}
		}
		delete(r.pages, oldest.ID)
		evicted = append(evicted, oldest)
	}
	return evicted
}

// Lookup finds a mounted instance and marks it as recently used.
func (r *Registry) Lookup(id string) (*Instance, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%q: %w", id, ErrPageGone)
	}

	r.mu.Lock()
	inst, ok := r.pages[id]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrPageGone)
	}
	inst.touch()
	return inst, nil
}

// Unmount removes an instance and stops its timers. It reports whether the
// id was mounted.
func (r *Registry) Unmount(id string) bool {
	r.mu.Lock()
	inst, ok := r.pages[id]
	delete(r.pages, id)
	r.mu.Unlock()

	if ok {
		inst.cancel()
		r.opts.Logger.WithFields(map[string]any{"page": id}).Debug("page unmounted")
	}
	return ok
}

// Sweep unmounts instances idle for longer than idle and returns the count.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.opts.Clock.Now().Add(-idle)

	r.mu.Lock()
	var stale []string
	for id, inst := range r.pages {
		if inst.idleSince().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.Unlock()

	swept := 0
	for _, id := range stale {
		if r.Unmount(id) {
			swept++
		}
	}
	return swept
}

// Len is the number of mounted instances.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Close unmounts everything.
func (r *Registry) Close() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.pages))
	for id := range r.pages {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.Unmount(id)
	}
}
