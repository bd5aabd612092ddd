package movement

import (
	"testing"

	"github.com/jakecoffman/cp"
)

const overlapEps = 1e-9

func overlaps(a, b cp.BB) bool {
	return a.L < b.R-overlapEps && a.R > b.L+overlapEps && a.B < b.T-overlapEps && a.T > b.B+overlapEps
}

// boxWorld is a tiny kinematic world: one box body against static boxes.
type boxWorld struct {
	solids []cp.BB
	pos    cp.Vector
	vel    cp.Vector
	size   cp.Vector
	feetW  float64
	feetH  float64
	writes int
}

func newBoxWorld(pos cp.Vector, solids ...cp.BB) *boxWorld {
	return &boxWorld{
		solids: solids,
		pos:    pos,
		size:   cp.Vector{X: 1, Y: 2},
		feetW:  0.9,
		feetH:  0.2,
	}
}

func (w *boxWorld) Position() cp.Vector { return w.pos }
func (w *boxWorld) Velocity() cp.Vector { return w.vel }

func (w *boxWorld) SetVelocity(v cp.Vector) {
	w.vel = v
	w.writes++
}

func (w *boxWorld) Bounds() cp.BB { return BoxAt(w.pos, w.size) }

func (w *boxWorld) FeetBounds() cp.BB {
	b := w.Bounds()
	return cp.BB{L: w.pos.X - w.feetW/2, B: b.B, R: w.pos.X + w.feetW/2, T: b.B + w.feetH}
}

func (w *boxWorld) BoxCast(origin, size, dir cp.Vector, distance float64, mask uint) (Hit, bool) {
	swept := SweptBox(origin, size, dir, distance)
	start := BoxAt(origin, size)
	best, found := Hit{}, false
	for _, s := range w.solids {
		if !overlaps(swept, s) {
			continue
		}
		var d float64
		switch {
		case dir.Y < 0:
			d = start.B - s.T
		case dir.Y > 0:
			d = s.B - start.T
		case dir.X > 0:
			d = s.L - start.R
		default:
			d = start.L - s.R
		}
		d = max(d, 0)
		if found && d >= best.Distance {
			continue
		}
		best = Hit{
			Point: cp.Vector{
				X: min(max(origin.X, s.L), s.R),
				Y: min(max(origin.Y, s.B), s.T),
			},
			Normal:   cp.Vector{X: -dir.X, Y: -dir.Y},
			Distance: d,
		}
		found = true
	}
	return best, found
}

func (w *boxWorld) step(dt float64) {
	w.pos.X += w.vel.X * dt
	for _, s := range w.solids {
		if !overlaps(w.Bounds(), s) {
			continue
		}
		if w.vel.X > 0 {
			w.pos.X = s.L - w.size.X/2
		} else {
			w.pos.X = s.R + w.size.X/2
		}
		w.vel.X = 0
	}

	w.pos.Y += w.vel.Y * dt
	for _, s := range w.solids {
		if !overlaps(w.Bounds(), s) {
			continue
		}
		if w.vel.Y > 0 {
			w.pos.Y = s.B - w.size.Y/2
		} else {
			w.pos.Y = s.T + w.size.Y/2
		}
		w.vel.Y = 0
	}
}

type shakeRecorder struct {
	shakes  int
	impulse []cp.Vector
}

func (s *shakeRecorder) Shake() { s.shakes++ }

func (s *shakeRecorder) ShakeWith(v cp.Vector) {
	s.shakes++
	s.impulse = append(s.impulse, v)
}

type cameraRecorder struct {
	lerpedFromFall bool
	yDamping       []bool
	lookAhead      []bool
}

func (c *cameraRecorder) RequestYDampingLerp(falling bool) {
	c.yDamping = append(c.yDamping, falling)
	c.lerpedFromFall = falling
}

func (c *cameraRecorder) RequestLookAheadLerp(highFall bool) {
	c.lookAhead = append(c.lookAhead, highFall)
}

func (c *cameraRecorder) IsLerpingYDamping() bool      { return false }
func (c *cameraRecorder) IsLerpingLookAheadTime() bool { return false }
func (c *cameraRecorder) HasLerpedFromFall() bool      { return c.lerpedFromFall }
func (c *cameraRecorder) FallSpeedThreshold() float64  { return -15 }

type rig struct {
	t      *testing.T
	dt     float64
	world  *boxWorld
	ctrl   *Controller
	events *EventQueue
	shaker *shakeRecorder
	camera *cameraRecorder
	frames int
}

// floorTop is the top of the default ground slab.
const floorTop = 0.0

func ground() cp.BB {
	return cp.BB{L: -50, B: floorTop - 2, R: 50, T: floorTop}
}

// standing returns the body center for a body resting on y.
func standing(x, y float64) cp.Vector {
	return cp.Vector{X: x, Y: y + 1}
}

func newRig(t *testing.T, stats Stats, pos cp.Vector, solids ...cp.BB) *rig {
	t.Helper()
	r := &rig{
		t:      t,
		dt:     0.02,
		world:  newBoxWorld(pos, solids...),
		events: &EventQueue{},
		shaker: &shakeRecorder{},
		camera: &cameraRecorder{},
	}
	r.ctrl = New(Options{
		Stats:  stats,
		Body:   r.world,
		Caster: r.world,
		Shaker: r.shaker,
		Camera: r.camera,
	})
	r.ctrl.Subscribe(r.events)
	return r
}

// frame runs the fixed step, the world step and then the frame update, the
// same order a real loop uses.
func (r *rig) frame(in Input) []Event {
	r.ctrl.FixedUpdate(r.dt)
	r.world.step(r.dt)
	r.ctrl.Update(r.dt, in)
	r.frames++
	return r.events.Drain()
}

func (r *rig) idle(n int) []Event {
	var out []Event
	for range n {
		out = append(out, r.frame(Input{})...)
	}
	return out
}

func (r *rig) press() []Event {
	return r.frame(Input{JumpPressed: true, JumpHeld: true})
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func count(events []Event, k EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == k {
			n++
		}
	}
	return n
}
