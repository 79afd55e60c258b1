package dom

import (
	"fmt"
	"strings"
)

// The selector engine covers the subset handle resolution needs: tag,
// #id, and .class simple selectors, compounds of those ("div.card#x"),
// and the descendant combinator ("ul li.done").

// compound is one whitespace-delimited selector step.
type compound struct {
	tag     string
	id      string
	classes []string
}

func (c compound) matches(n *Node) bool {
	if n.kind != KindElement {
		return false
	}
	if c.tag != "" && n.tag != c.tag {
		return false
	}
	if c.id != "" && n.ID() != c.id {
		return false
	}
	for _, class := range c.classes {
		if !n.HasClass(class) {
			return false
		}
	}
	return true
}

// parseSelector splits a selector into compounds, leftmost first.
func parseSelector(sel string) ([]compound, error) {
	fields := strings.Fields(sel)
	if len(fields) == 0 {
		return nil, fmt.Errorf("dom: empty selector")
	}
	steps := make([]compound, 0, len(fields))
	for _, f := range fields {
		c, err := parseCompound(f)
		if err != nil {
			return nil, err
		}
		steps = append(steps, c)
	}
	return steps, nil
}

func parseCompound(s string) (compound, error) {
	var c compound
	rest := s
	for rest != "" {
		kind := byte(0)
		if rest[0] == '#' || rest[0] == '.' {
			kind = rest[0]
			rest = rest[1:]
		}
		end := strings.IndexAny(rest, "#.")
		if end == -1 {
			end = len(rest)
		}
		name := rest[:end]
		rest = rest[end:]
		if name == "" {
			return compound{}, fmt.Errorf("dom: invalid selector %q", s)
		}
		switch kind {
		case '#':
			c.id = name
		case '.':
			c.classes = append(c.classes, name)
		default:
			if c.tag != "" || c.id != "" || len(c.classes) > 0 {
				return compound{}, fmt.Errorf("dom: invalid selector %q", s)
			}
			c.tag = strings.ToLower(name)
		}
	}
	return c, nil
}

// Matches reports whether n matches the selector, checking descendant
// steps against n's ancestors.
func (n *Node) Matches(sel string) (bool, error) {
	steps, err := parseSelector(sel)
	if err != nil {
		return false, err
	}
	return matchSteps(n, steps), nil
}

func matchSteps(n *Node, steps []compound) bool {
	last := len(steps) - 1
	if !steps[last].matches(n) {
		return false
	}
	// Remaining steps must match ancestors, in order, any distance apart.
	anc := n.parent
	for i := last - 1; i >= 0; i-- {
		for {
			if anc == nil {
				return false
			}
			if steps[i].matches(anc) {
				anc = anc.parent
				break
			}
			anc = anc.parent
		}
	}
	return true
}

// Query returns the first node in the subtree (excluding n itself, in
// document order) matching the selector, or nil.
func (n *Node) Query(sel string) (*Node, error) {
	steps, err := parseSelector(sel)
	if err != nil {
		return nil, err
	}
	var found *Node
	n.walk(func(c *Node) bool {
		if matchSteps(c, steps) {
			found = c
			return false
		}
		return true
	})
	return found, nil
}

// QueryAll returns every node in the subtree matching the selector, in
// document order.
func (n *Node) QueryAll(sel string) ([]*Node, error) {
	steps, err := parseSelector(sel)
	if err != nil {
		return nil, err
	}
	var out []*Node
	n.walk(func(c *Node) bool {
		if matchSteps(c, steps) {
			out = append(out, c)
		}
		return true
	})
	return out, nil
}

// walk visits descendants depth-first in document order. Returning false
// from visit stops the walk.
func (n *Node) walk(visit func(*Node) bool) bool {
	for _, c := range n.children {
		if !visit(c) {
			return false
		}
		if !c.walk(visit) {
			return false
		}
	}
	return true
}

// Query is the document-level selector lookup.
func (d *Document) Query(sel string) (*Node, error) {
	return d.root.Query(sel)
}

// QueryAll is the document-level selector lookup returning all matches.
func (d *Document) QueryAll(sel string) ([]*Node, error) {
	return d.root.QueryAll(sel)
}
