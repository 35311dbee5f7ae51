package ecs

// Resettable is implemented by all component stores so the pool can
// clear a slot's data from every store on destroy.
type Resettable interface {
	Reset(index uint32)
}

// Registry tracks all component stores of a pool.
type Registry struct {
	stores []Resettable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Resettable, 0, 16),
	}
}

// Register adds a component store to the registry.
func (r *Registry) Register(store Resettable) {
	r.stores = append(r.stores, store)
}

// ResetAll clears the given slot in every registered component store.
func (r *Registry) ResetAll(index uint32) {
	for _, s := range r.stores {
		s.Reset(index)
	}
}

func (r *Registry) Len() int { return len(r.stores) }
