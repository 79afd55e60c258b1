package shadow

import (
	"errors"
	"fmt"

	"github.com/shadowtree-dev/shadowtree/pkg/dom"
)

// ErrNoMatch is returned by Acquire when a selector handle resolves to
// no node in the document.
var ErrNoMatch = errors.New("shadow: selector matched no node")

// ErrNilNode is returned by Acquire for a ByNode handle built from nil.
var ErrNilNode = errors.New("shadow: nil node handle")

// Handle names a live node to track: a concrete node reference, a
// selector string, or (the zero value) the whole document.
type Handle struct {
	node     *dom.Node
	selector string
	byNode   bool
}

// ByNode returns a handle for a concrete live node. Passing nil yields a
// handle whose resolution fails with ErrNilNode, not the zero handle.
func ByNode(n *dom.Node) Handle { return Handle{node: n, byNode: true} }

// BySelector returns a handle resolved against the document at Acquire
// time. Resolution uses dom.Document.Query, first match wins.
func BySelector(sel string) Handle { return Handle{selector: sel} }

// WholeDocument returns the zero handle, tracking the document node.
func WholeDocument() Handle { return Handle{} }

// resolve turns the handle into a concrete node reference.
func (h Handle) resolve(d *dom.Document) (*dom.Node, error) {
	switch {
	case h.byNode:
		if h.node == nil {
			return nil, ErrNilNode
		}
		return h.node, nil
	case h.selector != "":
		n, err := d.Query(h.selector)
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nil, fmt.Errorf("%w: %q", ErrNoMatch, h.selector)
		}
		return n, nil
	default:
		return d.Root(), nil
	}
}
