package world

import (
	"github.com/brickrun/platformer/internal/component"
	"github.com/brickrun/platformer/internal/core/ecs"
	"github.com/brickrun/platformer/internal/core/event"
	"github.com/brickrun/platformer/internal/scripting"
)

// DamagePlayer applies amount from attacker unless the player is dead or
// invulnerable, then opens a new invulnerability window. It reports whether
// damage was applied.
func (s *State) DamagePlayer(amount float64, cause string, attacker ecs.Entity) bool {
	p := s.Player
	if !s.Alive(p) || s.C.Invulnerable.Has(p) || !s.C.Health.Has(p) {
		return false
	}
	h := s.C.Health.Get(p)
	dmg := s.Script.CalcDamage(scripting.DamageContext{
		Source:       cause,
		Base:         amount,
		Attacker:     component.TagName(attacker.Tag()),
		Target:       component.TagName(component.TagPlayer),
		TargetHealth: h.Current,
		TargetMax:    h.Max,
		Frame:        s.Frame,
	})
	h.Damage(dmg)
	s.C.Invulnerable.Add(p, component.Invulnerable{
		Frames:  s.Cfg.Combat.InvulnerableFrames,
		Created: s.Frame,
	})
	event.Emit(s.Bus, event.PlayerDamaged{
		Amount: dmg,
		Health: h.Current,
		Source: attacker.ID(),
		Cause:  cause,
	})
	return true
}

// DamageEntity hits a non-player target. Targets without Health die at
// once. It reports whether the target died.
func (s *State) DamageEntity(target ecs.Entity, amount float64, cause string, attacker ecs.Entity) bool {
	if !s.Alive(target) {
		return false
	}
	if !s.C.Health.Has(target) {
		s.Kill(target)
		return true
	}
	h := s.C.Health.Get(target)
	dmg := s.Script.CalcDamage(scripting.DamageContext{
		Source:       cause,
		Base:         amount,
		Attacker:     component.TagName(attacker.Tag()),
		Target:       component.TagName(target.Tag()),
		TargetHealth: h.Current,
		TargetMax:    h.Max,
		Frame:        s.Frame,
	})
	if h.Damage(dmg) {
		s.Kill(target)
		return true
	}
	return false
}

// Kill puts e into the DEAD state so its death clip plays out. Entities
// without a State are destroyed right away.
func (s *State) Kill(e ecs.Entity) {
	if !e.Active() {
		return
	}
	ev := event.EntityDied{EntityID: e.ID(), Tag: e.Tag()}
	if s.C.Transform.Has(e) {
		ev.Position = s.C.Transform.Get(e).Pos
	}
	if s.C.State.Has(e) {
		s.C.State.Get(e).Mode = component.ModeDead
	} else {
		e.Destroy()
	}
	event.Emit(s.Bus, ev)
}
