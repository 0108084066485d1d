// Package middleware wraps a ResultStore with at-rest protections.
package middleware

import "github.com/arvel0/canopy/pkg/ports"

// Middleware allows wrapping a ResultStore to add behavior.
type Middleware func(ports.ResultStore) ports.ResultStore

// Chain applies middlewares left to right, so the first one sees Save calls
// first and Load results last.
func Chain(store ports.ResultStore, middlewares ...Middleware) ports.ResultStore {
	for i := len(middlewares) - 1; i >= 0; i-- {
		store = middlewares[i](store)
	}
	return store
}
