// Package system holds the per-frame simulation systems of the play scene.
package system

import (
	coresys "github.com/brickrun/platformer/internal/core/system"
	"github.com/brickrun/platformer/internal/world"
)

// RegisterAll adds every play-scene system to r. The runner orders them by
// phase: commit, enemy AI, movement, timers, collision, status, animation.
func RegisterAll(r *coresys.Runner, ws *world.State) {
	r.Register(NewCommitSystem(ws))
	r.Register(NewEnemyAISystem(ws))
	r.Register(NewMovementSystem(ws))
	r.Register(NewLifespanSystem(ws))
	r.Register(NewCollisionSystem(ws))
	r.Register(NewStatusSystem(ws))
	r.Register(NewAnimationSystem(ws))
}
