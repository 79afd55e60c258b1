// Package live serves a browsable view of a reconciled document.
//
// A Server drives the document's frame scheduler on a ticker and exposes
// the tree over HTTP: an index page with a self-updating client, the raw
// serialized tree, a WebSocket feed that pushes a fresh snapshot after
// every patch event on a watched node, Prometheus metrics, and a health
// endpoint.
//
// The tree packages are not goroutine safe, so the server serializes all
// tree access (frames, HTTP reads, and caller mutations) behind one
// mutex. Application code mutates shadows through Do:
//
//	srv.Do(func() {
//	    body.AppendChild(...)
//	})
package live
