package dom

// Clone returns a copy of n with fresh identities. The clone belongs to
// the same document, has no parent, and carries no event listeners or
// observers. With deep set, the whole subtree is copied.
func (n *Node) Clone(deep bool) *Node {
	c := &Node{
		kind: n.kind,
		tag:  n.tag,
		text: n.text,
		doc:  n.doc,
	}
	if len(n.attrs) > 0 {
		c.attrs = make([]Attr, len(n.attrs))
		copy(c.attrs, n.attrs)
	}
	if deep {
		for _, child := range n.children {
			cc := child.Clone(true)
			cc.parent = c
			c.children = append(c.children, cc)
		}
	}
	return c
}
