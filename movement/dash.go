package movement

import (
	"github.com/Tiqsif/platformer-template/common"
	"github.com/jakecoffman/cp"
)

func (c *Controller) dashCheck() {
	s := &c.st
	if !c.stats.EnableDash || !c.input.DashPressed {
		return
	}

	switch {
	case s.Grounded && s.DashOnGroundTimer < 0 && !s.Dashing:
		c.initiateDash()

	case !s.Grounded && !s.Dashing && s.DashesUsed < c.stats.NumberOfDashes:
		s.AirDashing = true
		c.initiateDash()
		// dashing out of a wall slide refunds the jump the slide exit spent
		if s.WallJumpPostBufferTimer > 0 {
			s.JumpsUsed = max(0, s.JumpsUsed-1)
		}
	}
}

func (c *Controller) initiateDash() {
	s := &c.st

	s.DashDirection = ResolveDashDirection(c.input.Move, s.FacingRight, c.stats.DashDiagonallyBias)
	s.DashesUsed++
	s.Dashing = true
	s.DashTimer = 0
	s.DashOnGroundTimer = c.stats.TimeBtwDashesOnGround
	s.FallingTimer = c.stats.FallModeRequiredTime

	c.resetJumpValues()
	c.resetWallJumpValues()
	c.stopWallSlide()

	c.emit(Event{Kind: EventDashStarted})
}

// ResolveDashDirection snaps a raw stick vector to one of DashDirections.
// Diagonals win ties by bias; neutral input dashes the way the character
// faces.
func ResolveDashDirection(in cp.Vector, facingRight bool, bias float64) cp.Vector {
	closest := DashDirections[0]
	minDistance := in.Sub(DashDirections[0]).Length()

	for _, d := range DashDirections {
		if in == d {
			closest = d
			break
		}
		distance := in.Sub(d).Length()
		if d.X != 0 && d.Y != 0 {
			distance -= bias
		}
		if distance < minDistance {
			minDistance = distance
			closest = d
		}
	}

	if closest == DashDirections[0] {
		if facingRight {
			return right
		}
		return left
	}
	return closest
}

func (c *Controller) dash(dt float64) {
	s := &c.st
	st := &c.stats
	if !st.EnableDash {
		return
	}

	switch {
	case s.Dashing:
		s.DashTimer += dt
		if s.DashTimer >= st.DashTime {
			if s.Grounded {
				c.resetDashes()
			}
			s.Dashing = false
			s.AirDashing = false

			if !s.Jumping && !s.WallJumping {
				s.DashFastFallTime = 0
				s.DashFastFallReleaseSpeed = s.VerticalVelocity
				if !s.Grounded {
					s.DashFastFalling = true
				}
			}
			return
		}

		s.HorizontalVelocity = st.DashSpeed * s.DashDirection.X
		if s.DashDirection.Y != 0 || s.AirDashing {
			s.VerticalVelocity = st.DashSpeed * s.DashDirection.Y
		}

	case s.DashFastFalling:
		if s.VerticalVelocity > 0 {
			if s.DashFastFallTime < st.DashTimeForUpwardsCancel {
				s.VerticalVelocity = common.Lerp(s.DashFastFallReleaseSpeed, 0, s.DashFastFallTime/st.DashTimeForUpwardsCancel)
			} else {
				s.VerticalVelocity += st.Gravity() * st.DashGravityOnReleaseMultiplier * dt
			}
			s.DashFastFallTime += dt
		} else {
			s.VerticalVelocity += st.Gravity() * st.DashGravityOnReleaseMultiplier * dt
			s.FallingTimer -= dt
		}
	}
}

func (c *Controller) resetDashValues() {
	c.st.DashFastFalling = false
	c.st.DashOnGroundTimer = -0.01
}

func (c *Controller) resetDashes() {
	c.st.DashesUsed = 0
}
