package ecs

// Each calls fn for every entity in entities that is active and holds A.
func Each[A any](entities []Entity, sa *Store[A], fn func(Entity, *A)) {
	for _, e := range entities {
		if sa.Has(e) {
			fn(e, sa.Get(e))
		}
	}
}

// Each2 calls fn for every entity in entities holding both A and B.
func Each2[A, B any](entities []Entity, sa *Store[A], sb *Store[B], fn func(Entity, *A, *B)) {
	for _, e := range entities {
		if sa.Has(e) && sb.Has(e) {
			fn(e, sa.Get(e), sb.Get(e))
		}
	}
}

// Each3 calls fn for every entity in entities holding A, B and C.
func Each3[A, B, C any](entities []Entity, sa *Store[A], sb *Store[B], sc *Store[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range entities {
		if sa.Has(e) && sb.Has(e) && sc.Has(e) {
			fn(e, sa.Get(e), sb.Get(e), sc.Get(e))
		}
	}
}
