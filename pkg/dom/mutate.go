package dom

// Structural mutation follows browser semantics: inserting a node that
// already has a parent detaches it from the old parent first. Structural
// violations (nil child, inserting a node into its own subtree, adding
// children to a text node) are programmer errors and panic, matching the
// x/net/html convention.

// AppendChild appends c as the last child of n.
func (n *Node) AppendChild(c *Node) {
	n.InsertChild(len(n.children), c)
}

// InsertChild inserts c at index i of n's children. Indexes are clamped
// to the valid range.
func (n *Node) InsertChild(i int, c *Node) {
	n.checkInsert(c)
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	if i < 0 {
		i = 0
	}
	if i > len(n.children) {
		i = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
	c.parent = n

	n.notify(Record{Type: RecordChildList, Target: n, Added: []*Node{c}})
}

// RemoveChild removes c from n's children. Panics if c is not a child of n.
func (n *Node) RemoveChild(c *Node) {
	if c == nil || c.parent != n {
		panic("dom: RemoveChild called for a node that is not a child")
	}
	for i, ch := range n.children {
		if ch == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
	c.parent = nil

	n.notify(Record{Type: RecordChildList, Target: n, Removed: []*Node{c}})
}

// Remove detaches n from its parent. No-op for detached nodes.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// ReplaceChild replaces old with c in n's children. Panics if old is not
// a child of n.
func (n *Node) ReplaceChild(old, c *Node) {
	if old == nil || old.parent != n {
		panic("dom: ReplaceChild called for a node that is not a child")
	}
	n.checkInsert(c)
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	for i, ch := range n.children {
		if ch == old {
			n.children[i] = c
			break
		}
	}
	old.parent = nil
	c.parent = n

	n.notify(Record{Type: RecordChildList, Target: n, Added: []*Node{c}, Removed: []*Node{old}})
}

// SetAttr sets the named attribute, preserving attribute order for
// existing keys. Setting an attribute to its current value is a no-op.
func (n *Node) SetAttr(key, value string) {
	if n.kind != KindElement {
		panic("dom: SetAttr on non-element node")
	}
	for i, a := range n.attrs {
		if a.Key == key {
			if a.Value == value {
				return
			}
			n.attrs[i].Value = value
			n.notify(Record{Type: RecordAttributes, Target: n, AttrName: key, OldValue: a.Value})
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Key: key, Value: value})
	n.notify(Record{Type: RecordAttributes, Target: n, AttrName: key})
}

// RemoveAttr removes the named attribute. No-op if it is not set.
func (n *Node) RemoveAttr(key string) {
	for i, a := range n.attrs {
		if a.Key == key {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			n.notify(Record{Type: RecordAttributes, Target: n, AttrName: key, OldValue: a.Value})
			return
		}
	}
}

// SetText replaces the text of a text or comment node.
func (n *Node) SetText(text string) {
	if n.kind != KindText && n.kind != KindComment {
		panic("dom: SetText on non-text node")
	}
	if n.text == text {
		return
	}
	old := n.text
	n.text = text
	n.notify(Record{Type: RecordCharacterData, Target: n, OldValue: old})
}

func (n *Node) checkInsert(c *Node) {
	if c == nil {
		panic("dom: insert of nil node")
	}
	if n.kind != KindElement && n.kind != KindDocument {
		panic("dom: insert into " + n.kind.String() + " node")
	}
	if c.kind == KindDocument {
		panic("dom: insert of a document node")
	}
	if c.Contains(n) {
		panic("dom: insert of a node into its own subtree")
	}
}
