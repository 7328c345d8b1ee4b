package metric

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the lookup table of concrete metrics keyed by identifier.
// Registration happens once at container build time; lookups are
// read-mostly and safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	metrics map[string]Metric
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{metrics: make(map[string]Metric)}
}

// Register adds a metric. Registering a duplicate identifier is a wiring
// bug and fails loudly.
func (r *Registry) Register(m Metric) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.metrics[m.ID()]; exists {
		return fmt.Errorf("metric %q already registered", m.ID())
	}
	r.metrics[m.ID()] = m
	return nil
}

// MustRegister registers a metric and panics on a duplicate identifier.
func (r *Registry) MustRegister(ms ...Metric) {
	for _, m := range ms {
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}
}

// Get looks up a metric by identifier.
func (r *Registry) Get(id string) (Metric, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.metrics[id]
	return m, ok
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.metrics))
	for id := range r.metrics {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
