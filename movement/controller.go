package movement

import (
	"log"

	"github.com/jakecoffman/cp"
)

// DefaultAmbientGravity is written to the vertical velocity on landing when
// Options.AmbientGravity is zero.
const DefaultAmbientGravity = -9.81

// Options wires a Controller to its collaborators. Only Body is required for
// anything to move; every other collaborator is skipped when nil.
type Options struct {
	Stats    Stats
	Body     Body
	Caster   Caster
	Camera   Camera
	Shaker   Shaker
	Animator Animator
	Bus      *Bus

	// AmbientGravity is the world gravity constant (negative, y-up).
	AmbientGravity float64
}

// Controller is the movement state machine for one character. Update runs
// the once-per-frame timer and intent phase; FixedUpdate runs the physics
// integration phase.
type Controller struct {
	stats Stats

	body     Body
	probe    Probe
	camera   Camera
	shaker   Shaker
	animator Animator
	bus      *Bus

	ambientGravity float64

	st    MotionState
	input Input
	last  ProbeResult

	headBumpLatched bool
}

func New(opts Options) *Controller {
	c := &Controller{
		stats:          opts.Stats,
		body:           opts.Body,
		probe:          Probe{Caster: opts.Caster},
		camera:         opts.Camera,
		shaker:         opts.Shaker,
		animator:       opts.Animator,
		bus:            opts.Bus,
		ambientGravity: opts.AmbientGravity,
	}
	if changed := c.stats.Normalize(); len(changed) > 0 {
		log.Printf("movement: clamped stats %v", changed)
	}
	if c.bus == nil {
		c.bus = &Bus{}
	}
	if c.ambientGravity == 0 {
		c.ambientGravity = DefaultAmbientGravity
	}
	c.Reset()
	return c
}

// Reset returns the controller to a standing start at the body's position.
func (c *Controller) Reset() {
	c.st = MotionState{
		FacingRight:  true,
		FallingTimer: c.stats.FallModeRequiredTime,
		FallHeight:   c.position().Y,
	}
	c.input = Input{}
	c.last = ProbeResult{}
	c.headBumpLatched = false
}

// Update runs the frame phase: timers, jump/land/wall/dash intent and the
// camera and animation feedback.
func (c *Controller) Update(dt float64, in Input) {
	if c == nil || !(dt > 0) {
		return
	}
	c.input = in

	c.countTimers(dt)
	c.jumpChecks()
	c.landCheck()
	c.wallJumpCheck()
	c.wallSlideCheck()
	c.dashCheck()

	c.cameraFeedback()
	if c.animator != nil {
		c.animator.Tick(dt, c.velocity().X, c.stats.MaxWalkSpeed, c.st.Grounded)
	}
}

// FixedUpdate runs the integration phase and writes the body velocity once.
func (c *Controller) FixedUpdate(dt float64) {
	if c == nil || !(dt > 0) {
		return
	}

	c.collisionChecks()

	c.jump(dt)
	c.fall(dt)
	c.wallSlide(dt)
	c.wallJump(dt)
	c.dash(dt)

	switch {
	case c.st.Grounded:
		c.move(dt, c.stats.GroundAcceleration, c.stats.GroundDeceleration)
	case c.st.UseWallJumpMoveStats:
		c.move(dt, c.stats.WallJumpMoveAcceleration, c.stats.WallJumpMoveDeceleration)
	default:
		c.move(dt, c.stats.AirAcceleration, c.stats.AirDeceleration)
	}

	c.applyVelocity()
}

func (c *Controller) collisionChecks() {
	if c.body == nil {
		return
	}
	res := c.probe.Check(&c.stats, c.body.Bounds(), c.body.FeetBounds(), c.st.FacingRight)

	if res.Grounded != c.st.Grounded {
		c.st.Grounded = res.Grounded
		c.emit(Event{Kind: EventGroundedChanged, Value: res.Grounded})
	}
	c.st.HeadBumped = res.HeadBumped
	c.st.TouchingWall = res.TouchingWall
	if res.TouchingWall {
		c.st.LastWallHit = res.WallHit
		c.st.HasLastWallHit = true
	}
	if !res.HeadBumped && c.headBumpLatched {
		c.headBumpLatched = false
		c.emit(Event{Kind: EventHeadBumped, Value: false})
	}
	c.last = res
}

// Stats returns a copy of the active profile.
func (c *Controller) Stats() Stats {
	return c.stats
}

// SetStats swaps the profile; derived values are recomputed before the next
// step.
func (c *Controller) SetStats(s Stats) {
	if changed := s.Normalize(); len(changed) > 0 {
		log.Printf("movement: clamped stats %v", changed)
	}
	c.stats = s
	if !s.EnableDash {
		c.st.Dashing = false
		c.st.AirDashing = false
		c.st.DashFastFalling = false
	}
	c.st.JumpsUsed = min(c.st.JumpsUsed, s.MaxJumpCount)
}

// State returns a snapshot of the motion state.
func (c *Controller) State() MotionState {
	return c.st
}

func (c *Controller) Mode() Mode {
	return c.st.Mode()
}

// LastProbe returns the contacts sampled by the latest fixed step.
func (c *Controller) LastProbe() ProbeResult {
	return c.last
}

func (c *Controller) Bus() *Bus {
	return c.bus
}

// Subscribe registers an observer on the controller's event bus.
func (c *Controller) Subscribe(o Observer) func() {
	return c.bus.Subscribe(o)
}

func (c *Controller) emit(e Event) {
	e.Position = c.position()
	c.bus.Emit(e)
}

func (c *Controller) shake() {
	if c.shaker != nil {
		c.shaker.Shake()
	}
}

func (c *Controller) position() cp.Vector {
	if c.body == nil {
		return cp.Vector{}
	}
	return c.body.Position()
}

func (c *Controller) velocity() cp.Vector {
	if c.body == nil {
		return cp.Vector{X: c.st.HorizontalVelocity, Y: c.st.VerticalVelocity}
	}
	return c.body.Velocity()
}
