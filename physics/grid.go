package physics

import (
	"log"

	"github.com/Tiqsif/platformer-template/movement"
	"github.com/jakecoffman/cp"
	"github.com/solarlune/resolv"
)

const (
	tagSolid = "solid"
	tagProbe = "probe"
	tagActor = "actor"

	// gridScale is resolv units per world unit. Cells are gridScale units
	// square, so one cell per world unit.
	gridScale = 16
)

// gridSolid is the exact box behind a registered solid.
type gridSolid struct {
	bb    cp.BB
	layer uint
}

// Grid is a lightweight kinematic backend on a resolv cell grid. The grid
// covers [0, width] x [0, height]; anything outside that area is invisible
// to casts. Cells only find candidates, boxes are then tested exactly.
type Grid struct {
	space  *resolv.Space
	probe  *resolv.Object
	solids []*resolv.Object
	bodies []*GridBody
}

func NewGrid(width, height int) *Grid {
	space := resolv.NewSpace(max(width, 1)*gridScale, max(height, 1)*gridScale, gridScale, gridScale)
	probe := resolv.NewObject(0, 0, 1, 1, tagProbe)
	space.Add(probe)
	return &Grid{space: space, probe: probe}
}

// place registers obj over every cell bb touches. resolv treats the last
// unit of an object as outside it, so the box is padded by one unit.
func place(obj *resolv.Object, bb cp.BB) {
	obj.X = bb.L*gridScale - 1
	obj.Y = bb.B*gridScale - 1
	obj.W = (bb.R-bb.L)*gridScale + 2
	obj.H = (bb.T-bb.B)*gridScale + 2
	obj.Update()
}

// AddSolid adds a static box on the given category bits.
func (g *Grid) AddSolid(bb cp.BB, layer uint) {
	if g == nil {
		return
	}
	if layer == 0 {
		layer = DefaultLayer
	}
	obj := resolv.NewObject(0, 0, 0, 0, tagSolid)
	obj.Data = gridSolid{bb: bb, layer: layer}
	g.space.Add(obj)
	place(obj, bb)
	g.solids = append(g.solids, obj)
}

func (g *Grid) Solids() []cp.BB {
	if g == nil {
		return nil
	}
	out := make([]cp.BB, 0, len(g.solids))
	for _, o := range g.solids {
		out = append(out, o.Data.(gridSolid).bb)
	}
	return out
}

// solidsIn returns the boxes of solids on mask that share a cell with bb.
func (g *Grid) solidsIn(bb cp.BB, mask uint) []cp.BB {
	place(g.probe, bb)
	check := g.probe.Check(0, 0, tagSolid)
	if check == nil {
		return nil
	}
	out := make([]cp.BB, 0, len(check.Objects))
	for _, obj := range check.Objects {
		s, ok := obj.Data.(gridSolid)
		if !ok || s.layer&mask == 0 {
			continue
		}
		out = append(out, s.bb)
	}
	return out
}

func (g *Grid) Spawn(pos, size cp.Vector) Actor {
	return g.AddBody(pos, size)
}

// AddBody creates a character box centered at pos.
func (g *Grid) AddBody(pos, size cp.Vector) *GridBody {
	if g == nil {
		return nil
	}
	obj := resolv.NewObject(0, 0, 0, 0, tagActor)
	g.space.Add(obj)

	b := &GridBody{grid: g, obj: obj, pos: pos, size: size}
	place(obj, b.Bounds())
	g.bodies = append(g.bodies, b)
	log.Printf("physics: spawned grid body at (%.2f, %.2f)", pos.X, pos.Y)
	return b
}

// BoxCast sweeps an axis-aligned box along dir and reports the nearest solid
// whose category matches mask.
func (g *Grid) BoxCast(origin, size, dir cp.Vector, distance float64, mask uint) (movement.Hit, bool) {
	var best movement.Hit
	found := false
	if g == nil {
		return best, found
	}

	swept := movement.SweptBox(origin, size, dir, distance)
	start := movement.BoxAt(origin, size)

	for _, bb := range g.solidsIn(swept, mask) {
		if !bb.Intersects(swept) {
			continue
		}
		d := castDistance(start, bb, dir)
		if found && d >= best.Distance {
			continue
		}
		best = movement.Hit{
			Point:    closestPoint(bb, origin),
			Normal:   dir.Neg(),
			Distance: d,
		}
		found = true
	}
	return best, found
}

// Step moves every body by its velocity, resolving the X axis before Y.
func (g *Grid) Step(dt float64) {
	if g == nil || !(dt > 0) {
		return
	}
	for _, b := range g.bodies {
		b.step(dt)
	}
}

// GridBody is a character collider living on a Grid.
type GridBody struct {
	grid *Grid
	obj  *resolv.Object
	pos  cp.Vector
	vel  cp.Vector
	size cp.Vector
}

func (b *GridBody) Position() cp.Vector {
	return b.pos
}

func (b *GridBody) Velocity() cp.Vector {
	return b.vel
}

func (b *GridBody) SetVelocity(v cp.Vector) {
	b.vel = v
}

func (b *GridBody) Bounds() cp.BB {
	return movement.BoxAt(b.pos, b.size)
}

func (b *GridBody) FeetBounds() cp.BB {
	return feetBounds(b.pos, b.size)
}

func (b *GridBody) Teleport(pos cp.Vector) {
	b.pos = pos
	b.vel = cp.Vector{}
	place(b.obj, b.Bounds())
}

func (b *GridBody) step(dt float64) {
	if dx := b.vel.X * dt; dx != 0 {
		from := b.Bounds()
		if snapped, blocked := sweepAxis(from, b.grid.solidsIn(pathBox(from, dx, 0), cp.ALL_CATEGORIES), dx, 0); blocked {
			dx = snapped
			b.vel.X = 0
		}
		b.pos.X += dx
	}
	if dy := b.vel.Y * dt; dy != 0 {
		from := b.Bounds()
		if snapped, blocked := sweepAxis(from, b.grid.solidsIn(pathBox(from, 0, dy), cp.ALL_CATEGORIES), 0, dy); blocked {
			dy = snapped
			b.vel.Y = 0
		}
		b.pos.Y += dy
	}
	place(b.obj, b.Bounds())
}
