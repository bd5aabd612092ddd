package movement

func (c *Controller) countTimers(dt float64) {
	s := &c.st

	s.JumpBufferTimer -= dt

	if !s.Grounded {
		s.CoyoteTimer -= dt
	} else {
		s.CoyoteTimer = c.stats.CoyoteTime
		s.FallingTimer = c.stats.FallModeRequiredTime
	}

	if !c.shouldApplyPostWallJumpBuffer() {
		s.WallJumpPostBufferTimer -= dt
	}

	if s.Grounded {
		s.DashOnGroundTimer -= dt
	}
}

func (c *Controller) shouldApplyPostWallJumpBuffer() bool {
	return !c.st.Grounded && (c.st.TouchingWall || c.st.WallSliding)
}
