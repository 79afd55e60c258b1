// Package middleware provides observability decorators for shadow.Patcher.
//
// Decorators wrap the patcher a registry reconciles through:
//
//	p := middleware.Prometheus()(morph.New())
//	p = middleware.OpenTelemetry()(p)
//	reg := shadow.New(doc, p)
//
// Prometheus counts and times reconciliations; OpenTelemetry opens one
// span per reconciliation. TrackedTrees exposes a registry's size as a
// gauge.
package middleware
