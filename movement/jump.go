package movement

import (
	"math"

	"github.com/Tiqsif/platformer-template/common"
	"github.com/jakecoffman/cp"
)

// jumpChecks buffers presses, cuts jumps on release and picks one of the
// three jump branches. Branch order is fixed: fresh jump, direct double
// jump, then the air jump that also spends the forfeited ground jump.
func (c *Controller) jumpChecks() {
	s := &c.st
	in := c.input

	if in.JumpPressed {
		if s.WallSlideFalling && s.WallJumpPostBufferTimer >= 0 {
			return
		}
		if s.WallSliding || (s.TouchingWall && !s.Grounded) {
			return
		}
		s.JumpBufferTimer = c.stats.JumpBufferTime
		s.JumpReleasedInBuffer = false
	}

	if in.JumpReleased {
		if s.JumpBufferTimer > 0 {
			s.JumpReleasedInBuffer = true
		}
		if s.Jumping && s.VerticalVelocity > 0 {
			if s.PastApexThreshold {
				s.PastApexThreshold = false
				s.FastFalling = true
				s.FastFallTime = c.stats.TimeForUpwardsCancel
				s.VerticalVelocity = 0
			} else {
				s.FastFalling = true
				s.FastFallReleaseSpeed = s.VerticalVelocity
			}
		}
	}

	if s.JumpBufferTimer <= 0 {
		return
	}

	limit := c.stats.MaxJumpCount
	switch {
	case !s.Jumping && (s.Grounded || s.CoyoteTimer > 0) && s.JumpsUsed < limit:
		c.initiateJump(1)
		if s.JumpReleasedInBuffer {
			s.FastFalling = true
			s.FastFallReleaseSpeed = s.VerticalVelocity
		}
		c.emit(Event{Kind: EventFirstJumpStarted})

	case (s.Jumping || s.WallJumping || s.WallSlideFalling || s.AirDashing || s.DashFastFalling) &&
		!s.TouchingWall && s.JumpsUsed < limit:
		s.FastFalling = false
		c.initiateJump(1)
		c.shake()
		c.emit(Event{Kind: EventDoubleJumpStarted})
		s.DashFastFalling = false

	case s.Falling && !s.WallSlideFalling && s.JumpsUsed < limit-1:
		c.initiateJump(2)
		s.FastFalling = false
		c.shake()
		c.emit(Event{Kind: EventDoubleJumpStarted})
	}
}

func (c *Controller) initiateJump(jumps int) {
	s := &c.st
	s.Jumping = true
	c.resetWallJumpValues()

	s.JumpBufferTimer = 0
	s.JumpsUsed += jumps
	s.VerticalVelocity = c.stats.InitialJumpVelocity()
	c.emit(Event{Kind: EventJumpStarted})

	s.FallingTimer = c.stats.FallModeRequiredTime
}

// headBumpImpulse is the sideways camera kick on hitting a ceiling.
var headBumpImpulse = cp.Vector{X: 0.12, Y: 0}

func (c *Controller) jump(dt float64) {
	s := &c.st
	st := &c.stats

	if s.Jumping {
		if s.HeadBumped {
			if !s.FastFalling {
				s.FastFalling = true
				s.FastFallReleaseSpeed = 0
				s.FastFallTime = 0
			}
			if !c.headBumpLatched {
				c.headBumpLatched = true
				if c.shaker != nil {
					c.shaker.ShakeWith(headBumpImpulse)
				}
				c.emit(Event{Kind: EventHeadBumped, Value: true})
			}
		}

		switch {
		case s.VerticalVelocity >= 0:
			apex := common.InverseLerp(st.InitialJumpVelocity(), 0, s.VerticalVelocity)
			if apex >= st.ApexThreshold {
				if !s.PastApexThreshold {
					s.PastApexThreshold = true
					s.TimePastApex = 0
				}
				s.TimePastApex += dt
				if s.TimePastApex < st.ApexHangTime {
					s.VerticalVelocity = 0
				} else {
					s.VerticalVelocity = -0.01
				}
			} else if !s.FastFalling {
				s.VerticalVelocity += st.Gravity() * dt
				s.PastApexThreshold = false
			}

		case !s.FastFalling:
			s.VerticalVelocity += st.Gravity() * st.GravityOnReleaseMultiplier * dt
			s.FallHeight = math.Max(s.FallHeight, c.position().Y)
			s.FallingTimer -= dt

		default:
			if !s.Falling {
				s.Falling = true
				s.FallHeight = math.Max(s.FallHeight, c.position().Y)
			}
			s.FallingTimer -= dt
		}
	}

	// jump cut
	if s.FastFalling {
		if s.FastFallTime >= st.TimeForUpwardsCancel {
			s.VerticalVelocity += st.Gravity() * st.GravityOnReleaseMultiplier * dt
		} else {
			s.VerticalVelocity = common.Lerp(s.FastFallReleaseSpeed, 0, s.FastFallTime/st.TimeForUpwardsCancel)
		}
		s.FastFallTime += dt
	}
}

func (c *Controller) fall(dt float64) {
	s := &c.st
	if s.Grounded || s.Jumping || s.WallSliding || s.WallJumping || s.Dashing || s.DashFastFalling {
		return
	}
	s.Falling = true
	s.VerticalVelocity += c.stats.Gravity() * dt
	s.FallingTimer -= dt
}

func (c *Controller) landCheck() {
	s := &c.st
	airborne := s.Jumping || s.Falling || s.WallJumpFalling || s.WallJumping ||
		s.WallSlideFalling || s.WallSliding || s.DashFastFalling
	if !airborne || !s.Grounded || s.VerticalVelocity > 0 {
		return
	}

	c.resetJumpValues()
	c.stopWallSlide()
	c.resetWallJumpValues()
	c.resetDashes()

	s.JumpsUsed = 0
	s.VerticalVelocity = c.ambientGravity

	y := c.position().Y
	if s.DashFastFalling {
		c.resetDashValues()
	} else {
		c.resetDashValues()
		fallDistance := s.FallHeight - y
		if fallDistance > c.stats.AdjustedJumpHeight()*1.5 {
			c.emit(Event{Kind: EventFellFromHeight, FallDistance: fallDistance})
			c.shake()
		}
		c.emit(Event{Kind: EventLanded, FallDistance: fallDistance})
	}
	s.FallHeight = y
}

func (c *Controller) resetJumpValues() {
	s := &c.st
	s.Jumping = false
	s.Falling = false
	s.FastFalling = false
	s.FastFallTime = 0
	s.PastApexThreshold = false
}
