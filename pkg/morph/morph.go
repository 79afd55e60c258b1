package morph

import (
	"fmt"

	"github.com/shadowtree-dev/shadowtree/pkg/dom"
	"github.com/shadowtree-dev/shadowtree/pkg/shadow"
)

// patcher implements shadow.Patcher.
type patcher struct{}

// New returns the default patcher.
func New() shadow.Patcher {
	return patcher{}
}

// Apply mutates live in place to match target. The two roots must be
// compatible (same kind, same tag); a shadow clone always is, since a
// clone's own kind and tag never change.
func (patcher) Apply(live, target *dom.Node) error {
	if live == nil || target == nil {
		return fmt.Errorf("morph: nil node")
	}
	if !compatible(live, target) {
		return fmt.Errorf("morph: cannot reconcile %s %q with %s %q",
			live.Kind(), live.Tag(), target.Kind(), target.Tag())
	}
	morphNode(live, target)
	return nil
}

// compatible reports whether live can be morphed into target in place.
func compatible(live, target *dom.Node) bool {
	if live.Kind() != target.Kind() {
		return false
	}
	return live.Kind() != dom.KindElement || live.Tag() == target.Tag()
}

func morphNode(live, target *dom.Node) {
	switch live.Kind() {
	case dom.KindText, dom.KindComment:
		live.SetText(target.Text())
	case dom.KindElement:
		syncAttrs(live, target)
		syncChildren(live, target)
	case dom.KindDocument:
		syncChildren(live, target)
	}
}

// syncAttrs removes attributes absent from the target, then sets the
// target's. Setting an unchanged value is a no-op at the dom level, so
// unchanged attributes cost nothing.
func syncAttrs(live, target *dom.Node) {
	for _, a := range live.Attrs() {
		if _, ok := target.Attr(a.Key); !ok {
			live.RemoveAttr(a.Key)
		}
	}
	for _, a := range target.Attrs() {
		live.SetAttr(a.Key, a.Value)
	}
}

func syncChildren(live, target *dom.Node) {
	if hasKeys(target) || hasKeys(live) {
		syncKeyed(live, target)
	} else {
		syncPositional(live, target)
	}
	trim(live, target.ChildCount())
}

// syncPositional matches children by index.
func syncPositional(live, target *dom.Node) {
	for i, tc := range target.Children() {
		lc := live.Child(i)
		switch {
		case lc == nil:
			live.AppendChild(tc.Clone(true))
		case compatible(lc, tc):
			morphNode(lc, tc)
		default:
			live.ReplaceChild(lc, tc.Clone(true))
		}
	}
}

// syncKeyed matches children by key, reordering live children in place.
// After iteration i, positions 0..i hold the right nodes, so leftovers
// accumulate past the target length and trim removes them.
func syncKeyed(live, target *dom.Node) {
	byKey := make(map[string]*dom.Node)
	for _, lc := range live.Children() {
		if k := nodeKey(lc); k != "" {
			byKey[k] = lc
		}
	}

	for i, tc := range target.Children() {
		var match *dom.Node
		if k := nodeKey(tc); k != "" {
			if m, ok := byKey[k]; ok && compatible(m, tc) {
				match = m
				delete(byKey, k)
			}
		}
		if match == nil {
			live.InsertChild(i, tc.Clone(true))
			continue
		}
		if live.Child(i) != match {
			live.InsertChild(i, match)
		}
		morphNode(match, tc)
	}
}

// trim removes live children past the target length, last first.
func trim(live *dom.Node, n int) {
	for live.ChildCount() > n {
		live.Child(live.ChildCount() - 1).Remove()
	}
}

// nodeKey returns the reconciliation key of a child: the "key" attribute,
// falling back to "id".
func nodeKey(n *dom.Node) string {
	if v, ok := n.Attr("key"); ok {
		return v
	}
	if v, ok := n.Attr("id"); ok {
		return v
	}
	return ""
}

// hasKeys reports whether any child carries a reconciliation key.
func hasKeys(n *dom.Node) bool {
	for _, c := range n.Children() {
		if nodeKey(c) != "" {
			return true
		}
	}
	return false
}
