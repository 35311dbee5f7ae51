package system

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseCommit    Phase = iota // 0: commit staged entities, deliver last frame's events
	PhaseInput                  // 1: AI intents
	PhaseMovement               // 2: integrate velocity
	PhaseTimers                 // 3: lifespan, invulnerability, attack windows
	PhaseCollision              // 4: resolve overlaps
	PhaseStatus                 // 5: state -> animation
	PhaseAnimation              // 6: advance animations, reap finished ones
)

func (p Phase) String() string {
	switch p {
	case PhaseCommit:
		return "commit"
	case PhaseInput:
		return "input"
	case PhaseMovement:
		return "movement"
	case PhaseTimers:
		return "timers"
	case PhaseCollision:
		return "collision"
	case PhaseStatus:
		return "status"
	case PhaseAnimation:
		return "animation"
	}
	return "unknown"
}

// System is the interface every per-frame system implements. frame is the
// number of the frame being simulated.
type System interface {
	Phase() Phase
	Update(frame int)
}
