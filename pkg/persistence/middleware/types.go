// Package middleware decorates a ports.SceneStore with cross-cutting
// behavior.
package middleware

import "github.com/aretw0/immense/pkg/ports"

// Middleware allows wrapping a SceneStore to add behavior.
type Middleware func(ports.SceneStore) ports.SceneStore

// Chain wraps store with mws. The first middleware is the outermost.
func Chain(store ports.SceneStore, mws ...Middleware) ports.SceneStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
