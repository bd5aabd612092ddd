package movement

import (
	"math"

	"github.com/Tiqsif/platformer-template/common"
)

func (c *Controller) wallSlideCheck() {
	s := &c.st

	switch {
	case s.TouchingWall && !s.Grounded && !s.Dashing:
		if s.VerticalVelocity < 0 && !s.WallSliding {
			c.resetJumpValues()
			c.resetWallJumpValues()
			c.resetDashValues()
			if c.stats.ResetDashOnWallSlide {
				c.resetDashes()
			}

			s.WallSlideFalling = false
			s.WallSliding = true
			if c.stats.ResetJumpOnWallSlide {
				s.JumpsUsed = 0
			}
			c.emit(Event{Kind: EventWallSlideChanged, Value: true})
		}

	case s.WallSliding && !s.TouchingWall && !s.Grounded && !s.WallSlideFalling:
		s.WallSlideFalling = true
		c.stopWallSlide()

	default:
		c.stopWallSlide()
	}
}

// stopWallSlide ends a slide. Leaving a wall counts as spending a jump.
func (c *Controller) stopWallSlide() {
	s := &c.st
	if !s.WallSliding {
		return
	}
	s.JumpsUsed = min(s.JumpsUsed+1, c.stats.MaxJumpCount)
	s.WallSliding = false
	c.emit(Event{Kind: EventWallSlideChanged, Value: false})
}

func (c *Controller) wallSlide(dt float64) {
	s := &c.st
	if !s.WallSliding {
		return
	}
	s.VerticalVelocity = common.Lerp(s.VerticalVelocity, -c.stats.WallSlideSpeed, c.stats.WallSlideDecelerationSpeed*dt)
	s.FallingTimer = c.stats.FallModeRequiredTime
}

func (c *Controller) wallJumpCheck() {
	s := &c.st
	in := c.input

	if c.shouldApplyPostWallJumpBuffer() {
		s.WallJumpPostBufferTimer = c.stats.WallJumpPostBufferTime
	}

	if in.JumpReleased && !s.WallSliding && !s.TouchingWall && s.WallJumping && s.VerticalVelocity > 0 {
		if s.PastWallJumpApex {
			s.PastWallJumpApex = false
			s.WallJumpFastFalling = true
			s.WallJumpFastFallTime = c.stats.TimeForUpwardsCancel
			s.VerticalVelocity = 0
		} else {
			s.WallJumpFastFalling = true
			s.WallJumpReleaseSpeed = s.VerticalVelocity
		}
	}

	if in.JumpPressed && s.WallJumpPostBufferTimer > 0 {
		c.initiateWallJump()
	}
}

func (c *Controller) initiateWallJump() {
	s := &c.st
	if !s.WallJumping {
		s.WallJumping = true
		s.UseWallJumpMoveStats = true
	}
	c.stopWallSlide()
	c.resetJumpValues()

	s.VerticalVelocity = c.stats.InitialWallJumpVelocity()

	// push away from the wall that was last touched
	dir := 1.0
	if s.HasLastWallHit {
		if s.LastWallHit.Point.X > c.position().X {
			dir = -1
		}
	} else if s.FacingRight {
		dir = -1
	}
	s.HorizontalVelocity = math.Abs(c.stats.WallJumpDirection.X) * dir

	s.FallingTimer = c.stats.FallModeRequiredTime
	c.emit(Event{Kind: EventWallJumpStarted})
}

func (c *Controller) wallJump(dt float64) {
	s := &c.st
	st := &c.stats

	if s.WallJumping {
		s.WallJumpTime += dt
		if s.WallJumpTime >= st.TimeToJumpApex {
			s.UseWallJumpMoveStats = false
		}

		if s.HeadBumped {
			if !s.WallJumpFastFalling {
				s.WallJumpFastFalling = true
				s.WallJumpReleaseSpeed = 0
				s.WallJumpFastFallTime = 0
			}
			s.UseWallJumpMoveStats = false
		}

		switch {
		case s.VerticalVelocity >= 0:
			// apex is measured against the raw wall-jump launch height
			apex := common.InverseLerp(st.WallJumpDirection.Y, 0, s.VerticalVelocity)
			if apex >= st.ApexThreshold {
				if !s.PastWallJumpApex {
					s.PastWallJumpApex = true
					s.TimePastWallJumpApex = 0
				}
				s.TimePastWallJumpApex += dt
				if s.TimePastWallJumpApex < st.ApexHangTime {
					s.VerticalVelocity = 0
				} else {
					s.VerticalVelocity = -0.01
				}
			} else if !s.WallJumpFastFalling {
				s.VerticalVelocity += st.WallJumpGravity() * dt
				s.PastWallJumpApex = false
			}

		case !s.WallJumpFastFalling:
			s.VerticalVelocity += st.WallJumpGravity() * dt
			s.FallingTimer -= dt

		default:
			s.WallJumpFalling = true
			s.FallingTimer -= dt
		}
	}

	if s.WallJumpFastFalling {
		if s.WallJumpFastFallTime >= st.TimeForUpwardsCancel {
			s.VerticalVelocity += st.WallJumpGravity() * st.WallJumpGravityOnReleaseMultiplier * dt
		} else {
			s.VerticalVelocity = common.Lerp(s.WallJumpReleaseSpeed, 0, s.WallJumpFastFallTime/st.TimeForUpwardsCancel)
		}
		s.WallJumpFastFallTime += dt
	}
}

func (c *Controller) resetWallJumpValues() {
	s := &c.st
	s.WallSlideFalling = false
	s.UseWallJumpMoveStats = false
	s.WallJumping = false
	s.WallJumpFastFalling = false
	s.WallJumpFalling = false
	s.PastWallJumpApex = false
	s.WallJumpFastFallTime = 0
	s.WallJumpTime = 0
}
