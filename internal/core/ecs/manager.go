package ecs

// Manager stages new entities and keeps the live set and per-tag views.
// Entities created during a frame become visible at the next Update, so a
// system iterating a view never sees one another system is still building.
type Manager struct {
	pool    *Pool
	pending []Entity
	live    []Entity
	byTag   map[Tag][]Entity
	dropped map[Tag]int
}

func NewManager(pool *Pool) *Manager {
	return &Manager{
		pool:    pool,
		pending: make([]Entity, 0, 64),
		live:    make([]Entity, 0, pool.Capacity()),
		byTag:   make(map[Tag][]Entity),
		dropped: make(map[Tag]int),
	}
}

func (m *Manager) Pool() *Pool { return m.pool }

// Create allocates a slot and stages its handle. Components may be added
// right away. On exhaustion the nil Entity is returned and nothing is staged.
func (m *Manager) Create(tag Tag) Entity {
	id, ok := m.pool.Allocate(tag)
	if !ok {
		return Entity{}
	}
	e := m.pool.entity(id)
	m.pending = append(m.pending, e)
	return e
}

// Update commits staged entities, then drops inactive ones from every view.
func (m *Manager) Update() {
	for _, e := range m.pending {
		m.live = append(m.live, e)
		tag := e.Tag()
		m.byTag[tag] = append(m.byTag[tag], e)
	}
	m.pending = m.pending[:0]

	clear(m.dropped)
	for tag, vec := range m.byTag {
		kept := removeDead(vec)
		if n := len(vec) - len(kept); n > 0 {
			m.dropped[tag] = n
		}
		m.byTag[tag] = kept
	}
	m.live = removeDead(m.live)
}

// Dropped reports how many entities with any of the tags the last Update
// removed from the views.
func (m *Manager) Dropped(tags ...Tag) int {
	n := 0
	for _, t := range tags {
		n += m.dropped[t]
	}
	return n
}

func removeDead(vec []Entity) []Entity {
	n := 0
	for _, e := range vec {
		if e.Active() {
			vec[n] = e
			n++
		}
	}
	clear(vec[n:])
	return vec[:n]
}

// Entities returns the live set in insertion order. The slice is owned by
// the manager and valid until the next Update.
func (m *Manager) Entities() []Entity {
	return m.live
}

// ByTag returns live entities with the given tag in insertion order.
func (m *Manager) ByTag(tag Tag) []Entity {
	return m.byTag[tag]
}

// ByTags returns the union of several tag views in live insertion order.
func (m *Manager) ByTags(tags ...Tag) []Entity {
	switch len(tags) {
	case 0:
		return nil
	case 1:
		return m.ByTag(tags[0])
	}
	want := make(map[Tag]bool, len(tags))
	for _, t := range tags {
		want[t] = true
	}
	out := make([]Entity, 0)
	for _, e := range m.live {
		if want[e.Tag()] {
			out = append(out, e)
		}
	}
	return out
}

// Pending reports how many entities wait for the next Update.
func (m *Manager) Pending() int { return len(m.pending) }

// Reset destroys every entity, staged or live, and empties all views.
func (m *Manager) Reset() {
	m.pool.Reset()
	m.pending = m.pending[:0]
	m.live = m.live[:0]
	m.byTag = make(map[Tag][]Entity)
	clear(m.dropped)
}
