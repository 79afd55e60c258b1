package dom

// Event is a notification dispatched on a node.
type Event struct {
	Type       string
	Bubbles    bool
	Cancelable bool
	Target     *Node // set by DispatchEvent
	Detail     any   // optional payload

	canceled bool
	stopped  bool
}

// PreventDefault marks a cancelable event as canceled.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.canceled = true
	}
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.canceled }

// StopPropagation prevents the event from bubbling further.
func (e *Event) StopPropagation() { e.stopped = true }

type listener struct {
	fn func(*Event)
}

// AddEventListener registers fn for events of the given type dispatched
// on (or bubbling through) n. The returned function removes the listener.
func (n *Node) AddEventListener(typ string, fn func(*Event)) func() {
	if n.listeners == nil {
		n.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn}
	n.listeners[typ] = append(n.listeners[typ], l)

	return func() {
		ls := n.listeners[typ]
		for i, cur := range ls {
			if cur == l {
				n.listeners[typ] = append(ls[:i], ls[i+1:]...)
				return
			}
		}
	}
}

// DispatchEvent fires e on n, then bubbles it through ancestors when
// e.Bubbles is set. It returns false if a listener canceled the event.
func (n *Node) DispatchEvent(e *Event) bool {
	e.Target = n
	for cur := n; cur != nil; cur = cur.parent {
		ls := cur.listeners[e.Type]
		if len(ls) > 0 {
			// Snapshot so listeners may remove themselves mid-dispatch.
			snapshot := make([]*listener, len(ls))
			copy(snapshot, ls)
			for _, l := range snapshot {
				l.fn(e)
			}
		}
		if !e.Bubbles || e.stopped {
			break
		}
	}
	return !e.canceled
}
