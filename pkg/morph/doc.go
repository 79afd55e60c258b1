// Package morph is the default diff/patch applier for shadowtree.
//
// Apply walks a live node and a target node together and mutates the
// live side in place until it matches the target: attributes are set and
// removed individually, text is updated, and children are matched by
// "key" (then "id") attribute when present, positionally otherwise.
// Matched children are morphed recursively; unmatched target children
// are inserted as deep clones, never by moving nodes out of the target
// tree.
package morph
