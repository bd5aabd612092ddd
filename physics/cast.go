package physics

import (
	"math"

	"github.com/Tiqsif/platformer-template/movement"
	"github.com/jakecoffman/cp"
)

const (
	// DefaultLayer is the category bit level geometry lands on unless a
	// layer says otherwise.
	DefaultLayer uint = 1

	// PlayerCategory keeps character colliders out of every ground mask.
	PlayerCategory uint = 1 << 31

	// Share of the collider width used by the feet box, and the feet box
	// height as a share of the collider height.
	feetWidthRatio  = 0.9
	feetHeightRatio = 0.1

	overlapEps = 1e-9
)

// Backend is a collision world a movement controller can run against.
type Backend interface {
	movement.Caster

	AddSolid(bb cp.BB, layer uint)
	Spawn(pos, size cp.Vector) Actor
	Solids() []cp.BB
	Step(dt float64)
}

// Actor is a character collider owned by a Backend.
type Actor interface {
	movement.Body
	Teleport(pos cp.Vector)
}

func overlaps(a, b cp.BB) bool {
	return a.L < b.R-overlapEps && a.R > b.L+overlapEps && a.B < b.T-overlapEps && a.T > b.B+overlapEps
}

// castDistance is how far a box starting at start travels along an axis
// aligned dir before touching bb. Boxes already overlapping report zero.
func castDistance(start, bb cp.BB, dir cp.Vector) float64 {
	var d float64
	switch {
	case dir.Y < 0:
		d = start.B - bb.T
	case dir.Y > 0:
		d = bb.B - start.T
	case dir.X > 0:
		d = bb.L - start.R
	default:
		d = start.L - bb.R
	}
	return max(d, 0)
}

// closestPoint clamps p into bb.
func closestPoint(bb cp.BB, p cp.Vector) cp.Vector {
	return cp.Vector{
		X: min(max(p.X, bb.L), bb.R),
		Y: min(max(p.Y, bb.B), bb.T),
	}
}

func feetBounds(center, size cp.Vector) cp.BB {
	w := size.X * feetWidthRatio
	b := center.Y - size.Y/2
	return cp.BB{L: center.X - w/2, B: b, R: center.X + w/2, T: b + size.Y*feetHeightRatio}
}

// sweepAxis limits a single-axis move of from by (dx, dy) so the box ends
// flush with the first solid along the path. Solids the box already overlaps
// never block it.
func sweepAxis(from cp.BB, solids []cp.BB, dx, dy float64) (float64, bool) {
	path := pathBox(from, dx, dy)
	limit, blocked := math.Inf(1), false
	for _, bb := range solids {
		if !overlaps(path, bb) || overlaps(from, bb) {
			continue
		}
		var gap float64
		switch {
		case dx > 0:
			gap = bb.L - from.R
		case dx < 0:
			gap = bb.R - from.L
		case dy > 0:
			gap = bb.B - from.T
		default:
			gap = bb.T - from.B
		}
		if math.Abs(gap) < math.Abs(limit) {
			limit, blocked = gap, true
		}
	}
	if !blocked {
		return 0, false
	}
	if dx > 0 || dy > 0 {
		return max(limit, 0), true
	}
	return min(limit, 0), true
}

// pathBox is the box covering a single-axis move of from.
func pathBox(from cp.BB, dx, dy float64) cp.BB {
	return from.Merge(from.Offset(cp.Vector{X: dx, Y: dy}))
}
