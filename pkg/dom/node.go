package dom

import (
	"strings"

	"github.com/shadowtree-dev/shadowtree/pkg/frame"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <span>, etc.
	KindText                 // Plain text node
	KindComment              // <!-- comment -->
	KindDocument             // Tree root owned by a Document
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindDocument:
		return "Document"
	default:
		return "Unknown"
	}
}

// Attr is a single attribute. Attribute order is preserved.
type Attr struct {
	Key   string
	Value string
}

// Node is a tree node. Identity is pointer identity: two nodes with equal
// content are still distinct nodes. Nodes are created through a Document
// and belong to it for their whole life, attached or not.
type Node struct {
	kind     Kind
	tag      string
	text     string
	attrs    []Attr
	parent   *Node
	children []*Node
	doc      *Document

	listeners map[string][]*listener
	watchers  []*watch
}

// Document owns a node tree and the scheduler that delivers observations.
type Document struct {
	root  *Node
	sched *frame.Scheduler
}

// NewDocument creates a document with an <html><head></head><body></body>
// skeleton, using sched for observer delivery.
func NewDocument(sched *frame.Scheduler) *Document {
	if sched == nil {
		sched = frame.NewScheduler()
	}
	d := &Document{sched: sched}
	d.root = &Node{kind: KindDocument, doc: d}

	html := d.CreateElement("html")
	html.AppendChild(d.CreateElement("head"))
	html.AppendChild(d.CreateElement("body"))
	d.root.AppendChild(html)
	return d
}

// Root returns the document node, the attachment root of the tree.
func (d *Document) Root() *Node { return d.root }

// Scheduler returns the scheduler observer delivery rides on.
func (d *Document) Scheduler() *frame.Scheduler { return d.sched }

// DocumentElement returns the <html> element, or nil.
func (d *Document) DocumentElement() *Node {
	for _, c := range d.root.children {
		if c.kind == KindElement {
			return c
		}
	}
	return nil
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *Node {
	if html := d.DocumentElement(); html != nil {
		for _, c := range html.children {
			if c.kind == KindElement && c.tag == "body" {
				return c
			}
		}
	}
	return nil
}

// CreateElement creates a detached element node with the given tag.
// Tags are stored lowercase.
func (d *Document) CreateElement(tag string) *Node {
	return &Node{kind: KindElement, tag: strings.ToLower(tag), doc: d}
}

// CreateText creates a detached text node.
func (d *Document) CreateText(text string) *Node {
	return &Node{kind: KindText, text: text, doc: d}
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(text string) *Node {
	return &Node{kind: KindComment, text: text, doc: d}
}

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Tag returns the element tag, or "" for non-elements.
func (n *Node) Tag() string { return n.tag }

// Text returns the node text for text and comment nodes.
func (n *Node) Text() string { return n.text }

// Parent returns the parent node, or nil for detached nodes and roots.
func (n *Node) Parent() *Node { return n.parent }

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

// Children returns a copy of the child slice.
func (n *Node) Children() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node { return n.Child(0) }

// Attrs returns a copy of the attribute list, in document order.
func (n *Node) Attrs() []Attr {
	if len(n.attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// Attr returns the value of the named attribute and whether it is set.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// ID returns the id attribute, or "".
func (n *Node) ID() string {
	v, _ := n.Attr("id")
	return v
}

// HasClass reports whether the class attribute contains the given class.
func (n *Node) HasClass(class string) bool {
	v, ok := n.Attr("class")
	if !ok {
		return false
	}
	for _, f := range strings.Fields(v) {
		if f == class {
			return true
		}
	}
	return false
}

// IsConnected reports whether the node is attached to its document, that
// is, whether walking parents reaches the document node.
func (n *Node) IsConnected() bool {
	for p := n; p != nil; p = p.parent {
		if p.kind == KindDocument {
			return true
		}
	}
	return false
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of all text nodes in the
// subtree, in document order.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.appendText(&b)
	return b.String()
}

func (n *Node) appendText(b *strings.Builder) {
	if n.kind == KindText {
		b.WriteString(n.text)
		return
	}
	for _, c := range n.children {
		c.appendText(b)
	}
}
