package core

import (
	"fmt"
	"sync"
)

// Registry holds known lab configs in registration order. Autodetection
// walks it front to back, so the order is part of its behavior. It is safe
// for concurrent reads once populated.
type Registry struct {
	mu     sync.RWMutex
	order  []*LabConfig
	byKey  map[string]*LabConfig
	byName map[string]*LabConfig
}

// NewRegistry returns a registry holding configs in the given order.
func NewRegistry(configs ...*LabConfig) *Registry {
	r := &Registry{
		byKey:  make(map[string]*LabConfig),
		byName: make(map[string]*LabConfig),
	}
	for _, c := range configs {
		r.Register(c)
	}
	return r
}

// Register adds a lab config to the registry.
// Panics if a config with the same key is already registered.
func (r *Registry) Register(cfg *LabConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg.Prepare()
	key := cfg.Key()
	if _, exists := r.byKey[key]; exists {
		panic(fmt.Sprintf("lab config already registered: %s", key))
	}

	r.order = append(r.order, cfg)
	r.byKey[key] = cfg
	if _, exists := r.byName[cfg.Name]; !exists {
		r.byName[cfg.Name] = cfg
	}
}

// Get returns a lab config by "{name}-{type}" key, or by bare name when the
// lab has a single registered type (the first registered wins otherwise).
// Returns false if not found.
func (r *Registry) Get(key string) (*LabConfig, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cfg, ok := r.byKey[key]; ok {
		return cfg, true
	}
	cfg, ok := r.byName[key]
	return cfg, ok
}

// All returns all registered configs in registration order.
func (r *Registry) All() []*LabConfig {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*LabConfig, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered configs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
