package component

import (
	"strings"

	"github.com/brickrun/platformer/internal/anim"
)

// Mode is the behavioural mode held by the State component.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeAlive
	ModeIdle
	ModeRunning
	ModeJumping
	ModeClimbing
	ModeCrouching
	ModeShooting
	ModeRush
	ModeDead
)

var modeNames = [...]string{
	ModeNone:      "NONE",
	ModeAlive:     "ALIVE",
	ModeIdle:      "IDLE",
	ModeRunning:   "RUNNING",
	ModeJumping:   "JUMPING",
	ModeClimbing:  "CLIMBING",
	ModeCrouching: "CROUCHING",
	ModeShooting:  "SHOOTING",
	ModeRush:      "RUSH",
	ModeDead:      "DEAD",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return modeNames[ModeNone]
}

func ParseMode(s string) (Mode, bool) {
	for m, name := range modeNames {
		if strings.EqualFold(name, s) {
			return Mode(m), true
		}
	}
	return ModeNone, false
}

// Kind is the animation kind shown while in the mode.
func (m Mode) Kind() anim.Kind {
	switch m {
	case ModeRunning:
		return anim.KindRun
	case ModeJumping:
		return anim.KindJump
	case ModeClimbing:
		return anim.KindClimb
	case ModeCrouching:
		return anim.KindCrouch
	case ModeShooting:
		return anim.KindShoot
	case ModeRush:
		return anim.KindRush
	case ModeDead:
		return anim.KindDead
	case ModeIdle, ModeAlive:
		return anim.KindIdle
	}
	return anim.KindNone
}

// AttackType selects the behaviour of an enemy attack.
type AttackType uint8

const (
	AttackNone AttackType = iota
	AttackRush
	AttackMelee
)

var attackNames = [...]string{
	AttackNone:  "None",
	AttackRush:  "Rush",
	AttackMelee: "Melee",
}

func (a AttackType) String() string {
	if int(a) < len(attackNames) {
		return attackNames[a]
	}
	return attackNames[AttackNone]
}

// ParseAttackType accepts the level-file attack names. Unknown names map to
// AttackNone with ok=false.
func ParseAttackType(s string) (AttackType, bool) {
	for a, name := range attackNames {
		if strings.EqualFold(name, s) {
			return AttackType(a), true
		}
	}
	return AttackNone, false
}
