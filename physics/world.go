package physics

import (
	"log"
	"math"

	"github.com/Tiqsif/platformer-template/movement"
	"github.com/jakecoffman/cp"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypePlayer
)

// World owns the Chipmunk space, the static level boxes and the character
// bodies stepped inside it.
type World struct {
	space  *cp.Space
	solids []*cp.Shape
	bodies []*Body
}

// NewWorld creates an empty space. gravity only affects bodies that opt in;
// character bodies integrate with their own velocity.
func NewWorld(gravity float64) *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})
	space.SetCollisionSlop(0.001)

	return &World{space: space}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// AddSolid adds a static box on the given category bits.
func (w *World) AddSolid(bb cp.BB, layer uint) {
	if w == nil || w.space == nil {
		return
	}
	if layer == 0 {
		layer = DefaultLayer
	}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeSolid)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, layer, cp.ALL_CATEGORIES))
	w.space.AddShape(shape)
	w.solids = append(w.solids, shape)
}

// Solids returns the static boxes for debug drawing.
func (w *World) Solids() []cp.BB {
	if w == nil {
		return nil
	}
	out := make([]cp.BB, 0, len(w.solids))
	for _, s := range w.solids {
		out = append(out, s.BB())
	}
	return out
}

// Spawn creates a character body centered at pos.
func (w *World) Spawn(pos, size cp.Vector) Actor {
	return w.AddBody(pos, size)
}

// AddBody creates a fixed-rotation box body that ignores world gravity.
func (w *World) AddBody(pos, size cp.Vector) *Body {
	if w == nil || w.space == nil {
		return nil
	}

	cpBody := cp.NewBody(1, math.Inf(1))
	cpBody.SetPosition(pos)
	cpBody.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, cp.Vector{}, damping, dt)
	})

	shape := cp.NewBox(cpBody, size.X, size.Y, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypePlayer)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, PlayerCategory, cp.ALL_CATEGORIES))

	w.space.AddBody(cpBody)
	w.space.AddShape(shape)

	b := &Body{body: cpBody, shape: shape, size: size}
	w.bodies = append(w.bodies, b)
	log.Printf("physics: spawned body at (%.2f, %.2f) size %.2fx%.2f", pos.X, pos.Y, size.X, size.Y)
	return b
}

// BoxCast sweeps an axis-aligned box along dir and reports the nearest solid
// whose category matches mask.
func (w *World) BoxCast(origin, size, dir cp.Vector, distance float64, mask uint) (movement.Hit, bool) {
	var best movement.Hit
	found := false
	if w == nil || w.space == nil {
		return best, found
	}

	swept := movement.SweptBox(origin, size, dir, distance)
	start := movement.BoxAt(origin, size)
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, mask)

	w.space.BBQuery(swept, filter, func(shape *cp.Shape, _ interface{}) {
		if shape.Sensor() || shape.Body() != w.space.StaticBody {
			return
		}
		bb := shape.BB()
		d := castDistance(start, bb, dir)
		if found && d >= best.Distance {
			return
		}
		best = movement.Hit{
			Point:    shape.PointQuery(origin).Point,
			Normal:   dir.Neg(),
			Distance: d,
		}
		found = true
	}, nil)

	return best, found
}

// Step advances the simulation. Chipmunk moves bodies before it solves
// contacts, so character velocities are first trimmed to end flush against
// the static boxes.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil || !(dt > 0) {
		return
	}
	for _, b := range w.bodies {
		w.clampVelocity(b, dt)
	}
	w.space.Step(dt)
}

// clampVelocity resolves the X axis before Y, matching the grid backend.
func (w *World) clampVelocity(b *Body, dt float64) {
	v := b.Velocity()
	from := b.Bounds()
	if dx := v.X * dt; dx != 0 {
		if d, blocked := sweepAxis(from, w.solidsIn(pathBox(from, dx, 0)), dx, 0); blocked {
			v.X = d / dt
		}
		from = from.Offset(cp.Vector{X: v.X * dt})
	}
	if dy := v.Y * dt; dy != 0 {
		if d, blocked := sweepAxis(from, w.solidsIn(pathBox(from, 0, dy)), 0, dy); blocked {
			v.Y = d / dt
		}
	}
	if v != b.Velocity() {
		b.body.SetVelocityVector(v)
	}
}

func (w *World) solidsIn(bb cp.BB) []cp.BB {
	var out []cp.BB
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES)
	w.space.BBQuery(bb, filter, func(shape *cp.Shape, _ interface{}) {
		if shape.Sensor() || shape.Body() != w.space.StaticBody {
			return
		}
		out = append(out, shape.BB())
	}, nil)
	return out
}

// Body is a Chipmunk-backed character collider.
type Body struct {
	body  *cp.Body
	shape *cp.Shape
	size  cp.Vector
}

func (b *Body) Position() cp.Vector {
	return b.body.Position()
}

func (b *Body) Velocity() cp.Vector {
	return b.body.Velocity()
}

func (b *Body) SetVelocity(v cp.Vector) {
	b.body.SetVelocityVector(v)
}

// Bounds returns the collider box at the current position.
func (b *Body) Bounds() cp.BB {
	return movement.BoxAt(b.Position(), b.size)
}

// FeetBounds returns the narrow box along the collider's bottom edge.
func (b *Body) FeetBounds() cp.BB {
	return feetBounds(b.Position(), b.size)
}

// Teleport moves the body and clears its velocity.
func (b *Body) Teleport(pos cp.Vector) {
	b.body.SetPosition(pos)
	b.body.SetVelocityVector(cp.Vector{})
}

// Size returns the collider size.
func (b *Body) Size() cp.Vector {
	return b.size
}
