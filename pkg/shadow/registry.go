package shadow

import (
	"log/slog"
	"sync"

	"github.com/shadowtree-dev/shadowtree/pkg/dom"
	"github.com/shadowtree-dev/shadowtree/pkg/frame"
)

// Registry is the collection of tracked trees for one document. It is an
// explicit, caller-owned object: tests build a fresh one per test, there
// is no process-wide singleton.
//
// The registry's mutex guards only the record collection, making each
// lookup atomic with the mutation that accompanies it. Record state and
// the trees themselves follow the package's cooperative single-context
// model (see package dom).
type Registry struct {
	doc     *dom.Document
	sched   *frame.Scheduler
	patcher Patcher
	logger  *slog.Logger
	onError func(error)

	mu       sync.Mutex
	byLive   map[*dom.Node]*record
	byShadow map[*dom.Node]*record
	order    []*record
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger reconcile errors default to.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithErrorHandler routes Patcher failures to fn instead of the logger.
// No retry happens either way; every reconciliation fails at most once.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Registry) {
		r.onError = fn
	}
}

// New creates a registry for doc, reconciling through p on the
// document's scheduler.
func New(doc *dom.Document, p Patcher, opts ...Option) *Registry {
	if doc == nil {
		panic("shadow: New with nil document")
	}
	if p == nil {
		panic("shadow: New with nil patcher")
	}
	r := &Registry{
		doc:      doc,
		sched:    doc.Scheduler(),
		patcher:  p,
		byLive:   make(map[*dom.Node]*record),
		byShadow: make(map[*dom.Node]*record),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default().With("component", "shadow")
	}
	if r.onError == nil {
		r.onError = func(err error) {
			r.logger.Error("reconcile failed", "error", err)
		}
	}
	return r
}

// Acquire resolves the handle and returns the shadow clone for the
// resolved live node, creating a tracked record on first request.
// Repeated calls resolving to the same live node return the identical
// shadow node until Release.
func (r *Registry) Acquire(h Handle) (*dom.Node, error) {
	live, err := h.resolve(r.doc)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.byLive[live]; ok {
		return rec.Shadow(), nil
	}

	rec := newRecord(r, live)
	r.byLive[live] = rec
	r.byShadow[rec.Shadow()] = rec
	r.order = append(r.order, rec)
	return rec.Shadow(), nil
}

// Release stops tracking the record that owns the given shadow node and
// destroys it. Releasing a node the registry does not manage, including
// an already released shadow, is a no-op.
func (r *Registry) Release(shadowNode *dom.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byShadow[shadowNode]
	if !ok {
		return
	}
	delete(r.byLive, rec.live)
	delete(r.byShadow, shadowNode)
	for i, cur := range r.order {
		if cur == rec {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	rec.destroy()
}

// Live returns the live node tracked for the given shadow node, or nil
// if the shadow is not managed by this registry.
func (r *Registry) Live(shadowNode *dom.Node) *dom.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.byShadow[shadowNode]; ok {
		return rec.Live()
	}
	return nil
}

// Len returns the number of tracked trees.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Document returns the document this registry tracks nodes of.
func (r *Registry) Document() *dom.Document { return r.doc }
