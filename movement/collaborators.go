package movement

import "github.com/jakecoffman/cp"

// Body is the rigid body the controller drives. The controller writes its
// velocity exactly once per fixed step; the physics layer owns the position.
type Body interface {
	Position() cp.Vector
	Velocity() cp.Vector
	SetVelocity(v cp.Vector)
	// Bounds is the world-space AABB of the body collider.
	Bounds() cp.BB
	// FeetBounds is the world-space AABB of the feet collider.
	FeetBounds() cp.BB
}

// Hit describes the first collider found by a box cast.
type Hit struct {
	// Point is the closest point on the hit collider to the cast box center.
	Point    cp.Vector
	Normal   cp.Vector
	Distance float64
}

// Caster sweeps an axis-aligned box of the given size centered at origin
// along dir for distance and reports the nearest collider on mask.
type Caster interface {
	BoxCast(origin, size, dir cp.Vector, distance float64, mask uint) (Hit, bool)
}

// Camera receives the fall feedback requests.
type Camera interface {
	RequestYDampingLerp(falling bool)
	RequestLookAheadLerp(highFall bool)
	IsLerpingYDamping() bool
	IsLerpingLookAheadTime() bool
	HasLerpedFromFall() bool
	FallSpeedThreshold() float64
}

type Shaker interface {
	// Shake fires the default impulse.
	Shake()
	// ShakeWith fires an impulse with an explicit velocity.
	ShakeWith(velocity cp.Vector)
}

type Animator interface {
	Tick(dt, velX, maxVelX float64, grounded bool)
}
