// Package dom implements the mutable tree shadowtree reconciles.
//
// A Node is an element, text, or comment node with pointer identity;
// a Document owns a tree of them plus the frame.Scheduler used to deliver
// mutation observations. Trees are built with CreateElement/CreateText,
// parsed from HTML with ParseHTML, and serialized back with OuterHTML.
//
// # Mutation observation
//
// Observer is the change watcher: it reports child-list, attribute, and
// character-data changes anywhere in an observed subtree. Delivery is
// asynchronous: all records produced within one scheduler turn arrive in
// a single callback on the next Tick, so a burst of synchronous mutations
// is observed as one batch.
//
// # Concurrency
//
// The package is not goroutine safe. All tree access is expected to run
// on one cooperative execution context; callers that drive the scheduler
// from a goroutine must serialize their own reads against it.
package dom
