package movement

import (
	"log"
	"math"

	"github.com/Tiqsif/platformer-template/common"
	"github.com/jakecoffman/cp"
)

// Vertical velocity ceiling shared by every mode, and the symmetric bound
// used while dashing.
const maxRiseSpeed = 50

func (c *Controller) move(dt, acceleration, deceleration float64) {
	s := &c.st
	if s.Dashing {
		return
	}

	x := c.input.Move.X
	if math.Abs(x) >= c.stats.MoveThreshold {
		c.turnCheck(x)
		s.HorizontalVelocity = common.Lerp(s.HorizontalVelocity, x*c.stats.MaxWalkSpeed, acceleration*dt)
	} else {
		s.HorizontalVelocity = common.Lerp(s.HorizontalVelocity, 0, deceleration*dt)
	}
}

func (c *Controller) turnCheck(x float64) {
	switch {
	case c.st.FacingRight && x < 0:
		c.st.FacingRight = false
	case !c.st.FacingRight && x > 0:
		c.st.FacingRight = true
	}
}

func (c *Controller) applyVelocity() {
	s := &c.st
	if !s.Dashing {
		s.VerticalVelocity = common.Clamp(s.VerticalVelocity, -c.stats.MaxFallSpeed, maxRiseSpeed)
	} else {
		s.VerticalVelocity = common.Clamp(s.VerticalVelocity, -maxRiseSpeed, maxRiseSpeed)
	}

	if !common.Finite(s.HorizontalVelocity) || !common.Finite(s.VerticalVelocity) {
		log.Printf("movement: non-finite velocity (%v, %v), zeroing", s.HorizontalVelocity, s.VerticalVelocity)
		if !common.Finite(s.HorizontalVelocity) {
			s.HorizontalVelocity = 0
		}
		if !common.Finite(s.VerticalVelocity) {
			s.VerticalVelocity = 0
		}
	}

	if c.body != nil {
		c.body.SetVelocity(cp.Vector{X: s.HorizontalVelocity, Y: s.VerticalVelocity})
	}
}

// cameraFeedback asks the camera to tighten its vertical damping on fast
// falls, relax it once the character rises again, and switch look-ahead
// into high-fall mode after FallModeRequiredTime of falling.
func (c *Controller) cameraFeedback() {
	cam := c.camera
	if cam == nil {
		return
	}
	vy := c.velocity().Y

	if vy < cam.FallSpeedThreshold() && !cam.IsLerpingYDamping() && !cam.HasLerpedFromFall() {
		cam.RequestYDampingLerp(true)
	}
	if vy >= 0 && !cam.IsLerpingYDamping() && cam.HasLerpedFromFall() {
		cam.RequestYDampingLerp(false)
	}

	if !cam.IsLerpingLookAheadTime() {
		highFall := c.stats.EnableFallMode && vy <= 0 && c.st.FallingTimer <= 0
		cam.RequestLookAheadLerp(highFall)
	}
}
