package shop

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/store"
	"golang.org/x/sync/singleflight"
)

const openTimeout = 10 * time.Second

// Registry opens each workspace once and keeps it for the process lifetime.
type Registry struct {
	open store.Opener
	deps Deps
	log  *slog.Logger

	mu     sync.RWMutex
	spaces map[string]*Workspace
	group  singleflight.Group
}

func NewRegistry(open store.Opener, d Deps) *Registry {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Registry{open: open, deps: d, log: log, spaces: map[string]*Workspace{}}
}

// Get returns the workspace name, opening it on first use. Concurrent first
// calls share a single open, which outlives the caller that started it; a
// caller whose ctx ends stops waiting with ctx.Err().
func (r *Registry) Get(ctx context.Context, name string) (*Workspace, error) {
	r.mu.RLock()
	w, ok := r.spaces[name]
	r.mu.RUnlock()
	if ok {
		return w, nil
	}

	ch := r.group.DoChan(name, func() (any, error) {
		r.mu.RLock()
		w, ok := r.spaces[name]
		r.mu.RUnlock()
		if ok {
			return w, nil
		}
		octx, cancel := context.WithTimeout(context.WithoutCancel(ctx), openTimeout)
		defer cancel()
		w, err := Open(octx, name, r.open(name), r.deps)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.spaces[name] = w
		r.mu.Unlock()
		r.log.Debug("workspace opened", "workspace", name)
		return w, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Workspace), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.spaces)
}
