package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mk1shan/portfolio/app/metrics"
)

type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
	PhaseLoaded  Phase = "loaded"
)

var (
	ErrAlreadyActivated = errors.New("view already activated")
	ErrViewClosed       = errors.New("view closed")
)

// View owns one fetch of the feed for its lifetime. It moves from loading
// to either error or loaded exactly once; later deliveries are ignored.
type View struct {
	id        string
	createdAt time.Time

	mu        sync.Mutex
	phase     Phase
	entries   []Entry
	previews  map[string]string
	err       *FetchError
	activated bool
	closed    bool
	cancel    context.CancelFunc

	finished   chan struct{}
	finishOnce sync.Once
}

// Snapshot is a read-only copy of a view's state.
type Snapshot struct {
	ID        string
	Phase     Phase
	Entries   []Entry
	Previews  map[string]string
	Err       *FetchError
	CreatedAt time.Time
	Closed    bool
}

func NewView(id string) *View {
	return &View{
		id:        id,
		createdAt: time.Now().UTC(),
		phase:     PhaseLoading,
		finished:  make(chan struct{}),
	}
}

func (v *View) ID() string {
	return v.id
}

// Activate starts the view's single fetch. The fetch is cancelled when ctx
// ends or the view is closed, whichever happens first.
func (v *View) Activate(ctx context.Context, dispatcher Dispatcher) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	if v.activated {
		v.mu.Unlock()
		return ErrAlreadyActivated
	}
	v.activated = true
	viewCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.mu.Unlock()

	metrics.ViewActivated()

	deliver := func(res Result) {
		v.resolve(viewCtx, res)
	}

	if err := dispatcher.Dispatch(viewCtx, v.id, deliver); err != nil {
		slog.Warn("Failed to dispatch feed fetch", "view", v.id, "error", err)
		v.resolve(viewCtx, Result{Err: AsFetchError("feed service", err)})
	}

	return nil
}

func (v *View) resolve(ctx context.Context, res Result) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.phase != PhaseLoading {
		return
	}

	if v.closed || ctx.Err() != nil {
		metrics.ViewSuppressed()
		slog.Debug("View torn down before fetch resolved, dropping result", "view", v.id)
		return
	}

	if res.Err != nil {
		v.phase = PhaseError
		v.err = res.Err
	} else {
		v.phase = PhaseLoaded
		v.entries = res.Entries
		if v.entries == nil {
			v.entries = []Entry{}
		}
		v.previews = res.Previews
	}

	metrics.ViewResolved(string(v.phase))
	v.finish()
}

// Close tears the view down and cancels an outstanding fetch.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.closed = true
	if v.cancel != nil {
		v.cancel()
	}
	v.finish()
}

func (v *View) finish() {
	v.finishOnce.Do(func() { close(v.finished) })
}

// Wait blocks until the view resolves, is closed, or ctx is done.
// The bool reports whether the view reached a terminal phase.
func (v *View) Wait(ctx context.Context) (Snapshot, bool) {
	select {
	case <-v.finished:
	case <-ctx.Done():
	}
	s := v.Snapshot()
	return s, s.Phase != PhaseLoading
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	return Snapshot{
		ID:        v.id,
		Phase:     v.phase,
		Entries:   v.entries,
		Previews:  v.previews,
		Err:       v.err,
		CreatedAt: v.createdAt,
		Closed:    v.closed,
	}
}
