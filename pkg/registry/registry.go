// Package registry maps display names to node factories, forming the host
// plugin registration contract.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/arvel0/canopy/pkg/claude"
	"github.com/arvel0/canopy/pkg/domain"
	"github.com/arvel0/canopy/pkg/nodes"
)

// Factory builds a node instance bound to a model caller.
type Factory func(claude.Caller) nodes.Node

// Registry manages the available nodes, keyed by display name.
// Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a node factory under its display name.
// If a node with the same name exists, it is overwritten.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Node instantiates the node registered under name.
// Returns domain.ErrNodeNotFound for unknown names.
func (r *Registry) Node(name string, caller claude.Caller) (nodes.Node, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrNodeNotFound, name)
	}
	return f(caller), nil
}

// Names returns the registered display names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns a registry with the four Claude nodes registered under
// their host display names.
func Default() *Registry {
	r := New()
	r.Register("Describe Image", func(c claude.Caller) nodes.Node { return nodes.NewDescribeImage(c) })
	r.Register("Combine Texts", func(c claude.Caller) nodes.Node { return nodes.NewCombineTexts(c) })
	r.Register("Transform Text", func(c claude.Caller) nodes.Node { return nodes.NewTransformText(c) })
	r.Register("Classify Image", func(c claude.Caller) nodes.Node { return nodes.NewClassifyImage(c) })
	return r
}
