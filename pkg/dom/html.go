package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/shadowtree-dev/shadowtree/pkg/frame"
)

// voidElements are serialized without a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// OuterHTML serializes the node and its subtree.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	n.serialize(&b)
	return b.String()
}

// InnerHTML serializes the node's children.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for _, c := range n.children {
		c.serialize(&b)
	}
	return b.String()
}

// HTML serializes the whole document.
func (d *Document) HTML() string {
	return d.root.OuterHTML()
}

func (n *Node) serialize(b *strings.Builder) {
	switch n.kind {
	case KindText:
		b.WriteString(escapeHTML(n.text))
	case KindComment:
		b.WriteString("<!--")
		b.WriteString(n.text)
		b.WriteString("-->")
	case KindDocument:
		b.WriteString("<!DOCTYPE html>")
		for _, c := range n.children {
			c.serialize(b)
		}
	case KindElement:
		b.WriteByte('<')
		b.WriteString(n.tag)
		for _, a := range n.attrs {
			b.WriteByte(' ')
			b.WriteString(a.Key)
			b.WriteString(`="`)
			b.WriteString(escapeAttr(a.Value))
			b.WriteByte('"')
		}
		b.WriteByte('>')
		if voidElements[n.tag] {
			return
		}
		for _, c := range n.children {
			c.serialize(b)
		}
		b.WriteString("</")
		b.WriteString(n.tag)
		b.WriteByte('>')
	}
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// escapeAttr escapes text for safe inclusion in attribute values.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\n':
			buf.WriteString("&#10;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// ParseHTML parses a full HTML document. The resulting Document uses
// sched for observer delivery; a nil sched gets a fresh scheduler.
func ParseHTML(r io.Reader, sched *frame.Scheduler) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse html: %w", err)
	}
	if sched == nil {
		sched = frame.NewScheduler()
	}
	d := &Document{sched: sched}
	d.root = &Node{kind: KindDocument, doc: d}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := d.convert(c); n != nil {
			n.parent = d.root
			d.root.children = append(d.root.children, n)
		}
	}
	return d, nil
}

// ParseFragment parses an HTML fragment in a body context and returns the
// resulting detached nodes, owned by doc.
func (d *Document) ParseFragment(s string) ([]*Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(s), ctx)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	var out []*Node
	for _, p := range parsed {
		if n := d.convert(p); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// convert maps an x/net/html node to a dom node. Doctype and unknown
// node types are dropped.
func (d *Document) convert(h *html.Node) *Node {
	switch h.Type {
	case html.ElementNode:
		n := &Node{kind: KindElement, tag: strings.ToLower(h.Data), doc: d}
		for _, a := range h.Attr {
			n.attrs = append(n.attrs, Attr{Key: a.Key, Value: a.Val})
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if cc := d.convert(c); cc != nil {
				cc.parent = n
				n.children = append(n.children, cc)
			}
		}
		return n
	case html.TextNode:
		return &Node{kind: KindText, text: h.Data, doc: d}
	case html.CommentNode:
		return &Node{kind: KindComment, text: h.Data, doc: d}
	default:
		return nil
	}
}
