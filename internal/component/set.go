package component

import "github.com/brickrun/platformer/internal/core/ecs"

// Set holds one typed store per component kind. It is built once per pool;
// systems keep the pointer and index stores directly.
type Set struct {
	Transform    *ecs.Store[Transform]
	BoundingBox  *ecs.Store[BoundingBox]
	Animation    *ecs.Store[Animation]
	Gravity      *ecs.Store[Gravity]
	Health       *ecs.Store[Health]
	Input        *ecs.Store[Input]
	State        *ecs.Store[State]
	Lifespan     *ecs.Store[Lifespan]
	Invulnerable *ecs.Store[Invulnerable]
	Attacking    *ecs.Store[Attacking]
	Damage       *ecs.Store[Damage]
	Draggable    *ecs.Store[Draggable]
	GridLocation *ecs.Store[GridLocation]
	Destroyable  *ecs.Store[Destroyable]
	Climbable    *ecs.Store[Climbable]
	RayCaster    *ecs.Store[RayCaster]
	Enemy        *ecs.Store[Enemy]
}

func NewSet(p *ecs.Pool) *Set {
	return &Set{
		Transform:    ecs.NewStore(p, DefaultTransform),
		BoundingBox:  ecs.NewStore(p, BoundingBox{}),
		Animation:    ecs.NewStore(p, Animation{}),
		Gravity:      ecs.NewStore(p, Gravity{}),
		Health:       ecs.NewStore(p, DefaultHealth),
		Input:        ecs.NewStore(p, DefaultInput),
		State:        ecs.NewStore(p, State{Mode: ModeIdle}),
		Lifespan:     ecs.NewStore(p, Lifespan{}),
		Invulnerable: ecs.NewStore(p, DefaultInvulnerable),
		Attacking:    ecs.NewStore(p, DefaultAttacking),
		Damage:       ecs.NewStore(p, Damage{}),
		Draggable:    ecs.NewStore(p, Draggable{}),
		GridLocation: ecs.NewStore(p, GridLocation{}),
		Destroyable:  ecs.NewStore(p, Destroyable{}),
		Climbable:    ecs.NewStore(p, Climbable{}),
		RayCaster:    ecs.NewStore(p, RayCaster{}),
		Enemy:        ecs.NewStore(p, Enemy{}),
	}
}
