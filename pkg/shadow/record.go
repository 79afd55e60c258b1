package shadow

import "github.com/shadowtree-dev/shadowtree/pkg/dom"

// EventPatch is dispatched on the live node after every completed
// reconciliation, non-bubbling and non-cancelable.
const EventPatch = "patch"

// record tracks one live node: the shadow clone callers mutate, the
// watcher on that clone, and the coalescing token for the pending
// reconciliation. A record is live from construction until destroy.
type record struct {
	reg     *Registry
	live    *dom.Node
	shadow  *dom.Node
	watcher *dom.Observer

	// pending is the reconcile closure already handed to the frame
	// scheduler. Non-nil means a reconciliation is queued; no second
	// one may be queued until it runs.
	pending func()
}

func newRecord(reg *Registry, live *dom.Node) *record {
	r := &record{
		reg:    reg,
		live:   live,
		shadow: live.Clone(true),
	}
	r.watcher = dom.NewObserver(r.onChange)
	r.watcher.Observe(r.shadow, dom.AllChanges())
	return r
}

// Live returns the tracked live node, nil after destroy.
func (r *record) Live() *dom.Node { return r.live }

// Shadow returns the shadow clone, nil after destroy.
func (r *record) Shadow() *dom.Node { return r.shadow }

// onChange is the watcher callback. While the live node is attached,
// changes batch to the next frame; once it is detached they reconcile
// immediately, since a detached node will see no further frames.
func (r *record) onChange([]dom.Record) {
	if r.live == nil {
		return
	}
	if r.live.IsConnected() {
		r.scheduleReconcile()
		return
	}
	r.reconcile()
}

// scheduleReconcile queues a reconciliation for the next frame. At most
// one is ever queued per record; further calls coalesce into it.
func (r *record) scheduleReconcile() {
	if r.pending != nil {
		return
	}
	fn := func() { r.reconcile() }
	r.pending = fn
	r.reg.sched.RequestFrame(fn)
}

// reconcile applies the shadow's accumulated state onto the live node.
// The pending token clears first so a change made after this point can
// schedule a fresh reconciliation. A record destroyed while its frame
// callback was in flight no-ops here.
func (r *record) reconcile() {
	r.pending = nil
	if r.live == nil || r.shadow == nil {
		return
	}
	if err := r.reg.patcher.Apply(r.live, r.shadow); err != nil {
		r.reg.onError(err)
		return
	}
	r.live.DispatchEvent(&dom.Event{Type: EventPatch, Bubbles: false, Cancelable: false})
}

// destroy tears the record down: the watcher disconnects synchronously,
// all fields clear. Idempotent. A reconciliation already handed to the
// frame scheduler is not retracted; it fires and no-ops.
func (r *record) destroy() {
	if r.watcher == nil {
		return
	}
	r.watcher.Disconnect()
	r.live = nil
	r.shadow = nil
	r.watcher = nil
}
