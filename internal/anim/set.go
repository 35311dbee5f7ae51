package anim

// Clip is one entry of an archetype table: the animation to play for a kind
// and whether it loops.
type Clip struct {
	Animation Animation
	Repeat    bool
}

// Set maps animation kinds to clips for one archetype ("Mega", "Goomba").
// Sets are built and validated when assets load, so lookups during a frame
// cannot fail: kinds without a clip resolve to the fallback clip.
type Set struct {
	name     string
	clips    map[Kind]Clip
	fallback Clip
}

func NewSet(name string, fallback Clip) *Set {
	return &Set{
		name:     name,
		clips:    make(map[Kind]Clip),
		fallback: fallback,
	}
}

func (s *Set) Name() string { return s.name }

func (s *Set) Put(k Kind, c Clip) {
	s.clips[k] = c
}

func (s *Set) Has(k Kind) bool {
	_, ok := s.clips[k]
	return ok
}

// Clip returns the clip for k, or the fallback clip.
func (s *Set) Clip(k Kind) Clip {
	if c, ok := s.clips[k]; ok {
		return c
	}
	return s.fallback
}

func (s *Set) Fallback() Clip { return s.fallback }

func (s *Set) Len() int { return len(s.clips) }
