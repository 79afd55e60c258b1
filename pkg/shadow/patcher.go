package shadow

import "github.com/shadowtree-dev/shadowtree/pkg/dom"

// Patcher applies a reconciliation step: it mutates live in place until
// it matches the shape of target. Implementations decide how minimal the
// applied operations are; pkg/morph provides the default.
type Patcher interface {
	Apply(live, target *dom.Node) error
}

// PatcherFunc adapts a function to the Patcher interface.
type PatcherFunc func(live, target *dom.Node) error

// Apply implements Patcher.
func (f PatcherFunc) Apply(live, target *dom.Node) error {
	return f(live, target)
}
