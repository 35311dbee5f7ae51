package ecs

// Store is a fixed-capacity array of components of kind T, one entry per
// pool slot, each with a present flag. No per-entity allocation happens
// after construction.
type Store[T any] struct {
	pool    *Pool
	def     T
	data    []T
	present []bool
	discard T
}

// NewStore allocates a store sized to the pool and registers it so that
// destroyed slots are reset. def is the value AddDefault and Remove write.
func NewStore[T any](p *Pool, def T) *Store[T] {
	s := &Store[T]{
		pool:    p,
		def:     def,
		data:    make([]T, p.Capacity()),
		present: make([]bool, p.Capacity()),
	}
	for i := range s.data {
		s.data[i] = def
	}
	p.registry.Register(s)
	return s
}

// Get returns a pointer into the backing array. Callers check Has first;
// the value of an absent component is the store default. Handles that are
// no longer active resolve to a scratch value so writes through them cannot
// reach a reused slot.
func (s *Store[T]) Get(e Entity) *T {
	if !e.Active() {
		s.discard = s.def
		return &s.discard
	}
	return &s.data[e.id.Index()]
}

func (s *Store[T]) Has(e Entity) bool {
	return e.Active() && s.present[e.id.Index()]
}

// Add writes v into the entity's slot and marks it present.
func (s *Store[T]) Add(e Entity, v T) *T {
	if !e.Active() {
		s.discard = v
		return &s.discard
	}
	idx := e.id.Index()
	s.data[idx] = v
	s.present[idx] = true
	return &s.data[idx]
}

// AddDefault adds the kind's default value.
func (s *Store[T]) AddDefault(e Entity) *T {
	return s.Add(e, s.def)
}

func (s *Store[T]) Remove(e Entity) {
	if !e.Active() {
		return
	}
	s.Reset(e.id.Index())
}

// Reset restores the default and clears the present flag of a slot.
func (s *Store[T]) Reset(index uint32) {
	s.data[index] = s.def
	s.present[index] = false
}

// Default returns the value AddDefault uses.
func (s *Store[T]) Default() T { return s.def }
