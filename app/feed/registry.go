package feed

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mk1shan/portfolio/app/metrics"
)

// Registry keeps open views addressable by id until they expire.
// Evicted views are closed.
type Registry struct {
	views *expirable.LRU[string, *View]
}

func NewRegistry(size int, ttl time.Duration) *Registry {
	onEvict := func(id string, v *View) {
		v.Close()
		slog.Debug("View torn down", "view", id)
	}
	return &Registry{
		views: expirable.NewLRU[string, *View](size, onEvict, ttl),
	}
}

// Open creates and registers a new view. The caller activates it.
func (r *Registry) Open() *View {
	v := NewView(uuid.NewString())
	r.views.Add(v.ID(), v)
	metrics.SetOpenViews(r.views.Len())
	return v
}

func (r *Registry) Get(id string) (*View, bool) {
	return r.views.Get(id)
}

func (r *Registry) Remove(id string) {
	r.views.Remove(id)
	metrics.SetOpenViews(r.views.Len())
}

// Close tears down every open view.
func (r *Registry) Close() {
	r.views.Purge()
	metrics.SetOpenViews(0)
}

func (r *Registry) Len() int {
	return r.views.Len()
}
