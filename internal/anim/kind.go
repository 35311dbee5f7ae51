package anim

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind is the animation type encoded as a suffix of an animation name,
// e.g. "MegaRun" is the Run animation of the "Mega" archetype.
type Kind uint8

const (
	KindNone Kind = iota
	KindIdle
	KindRun
	KindJump
	KindCrouch
	KindClimb
	KindDead
	KindRush
	KindShoot
)

var kindNames = [...]string{
	KindNone:   "NONE",
	KindIdle:   "IDLE",
	KindRun:    "RUN",
	KindJump:   "JUMP",
	KindCrouch: "CROUCH",
	KindClimb:  "CLIMB",
	KindDead:   "DEAD",
	KindRush:   "RUSH",
	KindShoot:  "SHOOT",
}

var suffixPattern = regexp.MustCompile(`(Run|Jump|Crouch|Climb|Idle|Dead|Rush|Shoot)$`)

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindNone]
}

// Suffix is the title-cased name used in asset names ("RUN" -> "Run").
func (k Kind) Suffix() string {
	if k == KindNone {
		return ""
	}
	return cases.Title(language.Und).String(strings.ToLower(k.String()))
}

// ParseKind accepts "run", "RUN" or "Run".
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if k != int(KindNone) && strings.EqualFold(name, s) {
			return Kind(k), true
		}
	}
	return KindNone, false
}

// Kinds lists every classifiable kind.
func Kinds() []Kind {
	return []Kind{KindIdle, KindRun, KindJump, KindCrouch, KindClimb, KindDead, KindRush, KindShoot}
}

// Classify splits an animation name at its trailing type suffix. Names that
// do not end in a suffix are returned whole with KindNone.
func Classify(name string) (base string, kind Kind) {
	loc := suffixPattern.FindStringIndex(name)
	if loc == nil {
		return name, KindNone
	}
	k, _ := ParseKind(name[loc[0]:loc[1]])
	return name[:loc[0]], k
}

// ClipName builds the conventional asset name <base><Suffix>.
func ClipName(base string, kind Kind) string {
	return base + kind.Suffix()
}
