package movement

import "github.com/jakecoffman/cp"

var (
	down  = cp.Vector{X: 0, Y: -1}
	up    = cp.Vector{X: 0, Y: 1}
	right = cp.Vector{X: 1, Y: 0}
	left  = cp.Vector{X: -1, Y: 0}
)

// ProbeResult is the contact state sampled at the start of a fixed step.
type ProbeResult struct {
	Grounded     bool
	HeadBumped   bool
	TouchingWall bool

	GroundHit Hit
	HeadHit   Hit
	WallHit   Hit

	// Cast boxes, kept for debug drawing.
	GroundBox cp.BB
	HeadBox   cp.BB
	WallBox   cp.BB
}

// Probe runs the ground, head and wall box casts against a Caster.
type Probe struct {
	Caster Caster
}

// Check samples contacts for a body with the given collider bounds.
func (p Probe) Check(s *Stats, body, feet cp.BB, facingRight bool) ProbeResult {
	var res ProbeResult
	if p.Caster == nil || s == nil {
		return res
	}

	feetW := feet.R - feet.L
	feetCX := (feet.L + feet.R) / 2

	origin := cp.Vector{X: feetCX, Y: feet.B}
	size := cp.Vector{X: feetW, Y: s.GroundCheckDistance}
	res.GroundBox = SweptBox(origin, size, down, s.GroundCheckDistance)
	res.GroundHit, res.Grounded = p.Caster.BoxCast(origin, size, down, s.GroundCheckDistance, s.GroundLayer)

	origin = cp.Vector{X: feetCX, Y: body.T}
	size = cp.Vector{X: feetW * s.HeadWidth, Y: s.HeadCheckDistance}
	res.HeadBox = SweptBox(origin, size, up, s.HeadCheckDistance)
	res.HeadHit, res.HeadBumped = p.Caster.BoxCast(origin, size, up, s.HeadCheckDistance, s.GroundLayer)

	edge, dir := body.L, left
	if facingRight {
		edge, dir = body.R, right
	}
	origin = cp.Vector{X: edge, Y: (body.B + body.T) / 2}
	size = cp.Vector{X: s.WallCheckDistance, Y: (body.T - body.B) * s.WallCheckHeight}
	res.WallBox = SweptBox(origin, size, dir, s.WallCheckDistance)
	res.WallHit, res.TouchingWall = p.Caster.BoxCast(origin, size, dir, s.WallCheckDistance, s.GroundLayer)

	return res
}

// BoxAt returns the AABB of a box of size centered at c.
func BoxAt(c, size cp.Vector) cp.BB {
	hw, hh := size.X/2, size.Y/2
	return cp.BB{L: c.X - hw, B: c.Y - hh, R: c.X + hw, T: c.Y + hh}
}

// SweptBox returns the AABB covered by a box cast.
func SweptBox(origin, size, dir cp.Vector, distance float64) cp.BB {
	a := BoxAt(origin, size)
	b := BoxAt(origin.Add(dir.Mult(distance)), size)
	return cp.BB{
		L: min(a.L, b.L),
		B: min(a.B, b.B),
		R: max(a.R, b.R),
		T: max(a.T, b.T),
	}
}
