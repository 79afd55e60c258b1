package dom

// RecordType classifies a mutation record.
type RecordType uint8

const (
	RecordChildList     RecordType = iota // node inserted or removed
	RecordAttributes                      // attribute set or removed
	RecordCharacterData                   // text node content changed
)

// String returns the string representation of the RecordType.
func (t RecordType) String() string {
	switch t {
	case RecordChildList:
		return "ChildList"
	case RecordAttributes:
		return "Attributes"
	case RecordCharacterData:
		return "CharacterData"
	default:
		return "Unknown"
	}
}

// Record describes one observed mutation.
type Record struct {
	Type     RecordType
	Target   *Node   // the node the mutation happened on
	Added    []*Node // inserted children (ChildList)
	Removed  []*Node // removed children (ChildList)
	AttrName string  // attribute key (Attributes)
	OldValue string  // previous attribute value or text
}

// Options selects which mutations an Observer reports.
type Options struct {
	// Subtree extends observation to all descendants of the observed
	// node, at any depth.
	Subtree bool

	// ChildList reports node insertions and removals.
	ChildList bool

	// Attributes reports attribute sets and removals.
	Attributes bool

	// CharacterData reports text content changes.
	CharacterData bool
}

// AllChanges returns options observing every mutation type at any depth.
func AllChanges() Options {
	return Options{Subtree: true, ChildList: true, Attributes: true, CharacterData: true}
}

// Observer watches one or more subtrees for mutations.
//
// Records are delivered in batches: all mutations observed within one
// scheduler turn arrive in a single callback invocation at the end of
// that turn. After Disconnect returns, the callback never fires again.
type Observer struct {
	fn        func([]Record)
	queue     []Record
	scheduled bool
	observed  []*Node
	active    bool
}

// watch links an observed node back to its observer.
type watch struct {
	obs  *Observer
	opts Options
}

// NewObserver creates an observer delivering batches to fn.
func NewObserver(fn func([]Record)) *Observer {
	return &Observer{fn: fn, active: true}
}

// Observe starts observing node with the given options. One observer may
// observe several nodes; each delivery batch may mix their records.
func (o *Observer) Observe(node *Node, opts Options) {
	if node == nil {
		panic("dom: Observe of nil node")
	}
	o.active = true
	node.watchers = append(node.watchers, &watch{obs: o, opts: opts})
	o.observed = append(o.observed, node)
}

// Disconnect stops all observation and discards queued records. It is
// synchronous and idempotent: no callback fires after it returns.
func (o *Observer) Disconnect() {
	for _, n := range o.observed {
		for i := 0; i < len(n.watchers); i++ {
			if n.watchers[i].obs == o {
				n.watchers = append(n.watchers[:i], n.watchers[i+1:]...)
				i--
			}
		}
	}
	o.observed = nil
	o.queue = nil
	o.active = false
}

// TakeRecords returns the queued, not yet delivered records and clears
// the queue, suppressing the delivery they would have produced.
func (o *Observer) TakeRecords() []Record {
	recs := o.queue
	o.queue = nil
	return recs
}

// enqueue adds a record and schedules delivery at the end of the current
// turn, once per batch.
func (o *Observer) enqueue(rec Record, d *Document) {
	o.queue = append(o.queue, rec)
	if o.scheduled {
		return
	}
	o.scheduled = true
	d.sched.Post(o.deliver)
}

// deliver hands the queued batch to the callback. The scheduled flag is
// cleared first so mutations made inside the callback start a new batch.
func (o *Observer) deliver() {
	o.scheduled = false
	if !o.active || len(o.queue) == 0 {
		return
	}
	batch := o.queue
	o.queue = nil
	o.fn(batch)
}

// wants reports whether opts select rec, observed from a node at the
// given distance (direct target or somewhere below).
func (opts Options) wants(rec Record, direct bool) bool {
	if !direct && !opts.Subtree {
		return false
	}
	switch rec.Type {
	case RecordChildList:
		return opts.ChildList
	case RecordAttributes:
		return opts.Attributes
	case RecordCharacterData:
		return opts.CharacterData
	}
	return false
}

// notify routes a mutation record to every observer watching the target
// or one of its ancestors. An observer watching several nodes on the
// ancestor path still receives the record once.
func (n *Node) notify(rec Record) {
	var seen map[*Observer]bool
	direct := true
	for p := rec.Target; p != nil; p = p.parent {
		for _, w := range p.watchers {
			if !w.opts.wants(rec, direct) {
				continue
			}
			if seen[w.obs] {
				continue
			}
			if seen == nil {
				seen = make(map[*Observer]bool, 1)
			}
			seen[w.obs] = true
			w.obs.enqueue(rec, n.doc)
		}
		direct = false
	}
}
