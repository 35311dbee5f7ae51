package ecs

import "go.uber.org/zap"

// EntityID encodes a 32-bit slot index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on destroy to invalidate stale refs.
// Generations start at 1, so the zero EntityID never names a live entity.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// Tag classifies an entity for bulk queries. The concrete tags are declared by
// the component package; TagNone is reserved and never assigned to a live slot.
type Tag uint8

const TagNone Tag = 0

// Pool owns a fixed number of slots. Every component store registered with
// the pool has one entry per slot; a slot is either active or free.
type Pool struct {
	capacity    int
	tags        []Tag
	active      []bool
	generations []uint32
	count       int
	registry    *Registry
	log         *zap.Logger
}

func NewPool(capacity int, log *zap.Logger) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pool{
		capacity:    capacity,
		tags:        make([]Tag, capacity),
		active:      make([]bool, capacity),
		generations: make([]uint32, capacity),
		registry:    NewRegistry(),
		log:         log,
	}
	for i := range p.generations {
		p.generations[i] = 1
	}
	return p
}

// Allocate claims the first free slot. When the pool is full the zero EntityID
// and false are returned; the caller keeps running without the entity.
func (p *Pool) Allocate(tag Tag) (EntityID, bool) {
	if tag == TagNone {
		p.log.Warn("refusing to allocate untagged entity")
		return 0, false
	}
	if p.count >= p.capacity {
		p.log.Warn("entity pool exhausted", zap.Int("capacity", p.capacity))
		return 0, false
	}
	for i, used := range p.active {
		if used {
			continue
		}
		p.active[i] = true
		p.tags[i] = tag
		p.count++
		return NewEntityID(uint32(i), p.generations[i]), true
	}
	return 0, false
}

// Deallocate clears every component of the slot and frees it. Stale or
// already freed ids are ignored.
func (p *Pool) Deallocate(id EntityID) {
	if !p.Alive(id) {
		return
	}
	idx := id.Index()
	p.registry.ResetAll(idx)
	p.active[idx] = false
	p.generations[idx]++
	if p.generations[idx] == 0 {
		p.generations[idx] = 1
	}
	p.count--
}

// Alive reports whether id names the current occupant of an active slot.
func (p *Pool) Alive(id EntityID) bool {
	idx := int(id.Index())
	if id.IsZero() || idx >= p.capacity {
		return false
	}
	return p.active[idx] && p.generations[idx] == id.Generation()
}

// Tag returns the tag last assigned to the slot named by id.
func (p *Pool) Tag(id EntityID) Tag {
	idx := int(id.Index())
	if id.IsZero() || idx >= p.capacity {
		return TagNone
	}
	return p.tags[idx]
}

func (p *Pool) Capacity() int { return p.capacity }
func (p *Pool) Count() int    { return p.count }

// Reset frees every active slot.
func (p *Pool) Reset() {
	for i, used := range p.active {
		if used {
			p.Deallocate(NewEntityID(uint32(i), p.generations[i]))
		}
	}
}

func (p *Pool) entity(id EntityID) Entity {
	return Entity{id: id, pool: p}
}

// Entity is a copyable reference to a pool slot. It owns no component data;
// the zero Entity is the nil handle returned when allocation fails.
type Entity struct {
	id   EntityID
	pool *Pool
}

func (e Entity) ID() EntityID { return e.id }

// Index is the slot index, valid for the lifetime of the entity.
func (e Entity) Index() int { return int(e.id.Index()) }

// Valid reports whether the handle was ever issued by a pool.
func (e Entity) Valid() bool { return e.pool != nil && !e.id.IsZero() }

// Active reports whether the entity has not been destroyed. A handle kept
// past destruction stays inactive even after its slot is reused.
func (e Entity) Active() bool {
	return e.pool != nil && e.pool.Alive(e.id)
}

func (e Entity) Tag() Tag {
	if e.pool == nil {
		return TagNone
	}
	return e.pool.Tag(e.id)
}

// Destroy frees the slot immediately. The manager drops the handle from its
// views on its next Update.
func (e Entity) Destroy() {
	if e.pool != nil {
		e.pool.Deallocate(e.id)
	}
}
