// Package shadow is the reconciliation engine at the heart of shadowtree.
//
// A Registry hands out writable shadow clones of live tree nodes. Callers
// mutate a shadow clone directly, with no API in between; the registry
// watches the clone and folds the accumulated changes back onto the live
// node at the next frame, through a Patcher. Mutating a shadow whose live
// node has been detached reconciles immediately instead, since a
// detached node never gets another frame.
//
//	reg := shadow.New(doc, morph.New())
//	body, _ := reg.Acquire(shadow.BySelector("body"))
//	body.AppendChild(...)      // ordinary tree mutation
//	// next frame: live <body> is patched, "patch" event fires on it
//	reg.Release(body)
//
// Each live node has at most one shadow clone, and repeated Acquire calls
// for the same live node return the same clone until it is released.
package shadow
