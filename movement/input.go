package movement

import "github.com/jakecoffman/cp"

// Input is one frame of player intent. Pressed and Released are single-frame
// edges; Held is the level.
type Input struct {
	Move         cp.Vector
	JumpPressed  bool
	JumpReleased bool
	JumpHeld     bool
	DashPressed  bool
	DashHeld     bool
}

// InputTracker turns held button levels into edge-triggered Input samples.
type InputTracker struct {
	jumpHeld bool
	dashHeld bool
}

// Sample builds the Input for this frame and remembers the levels for the next.
func (t *InputTracker) Sample(move cp.Vector, jumpHeld, dashHeld bool) Input {
	in := Input{
		Move:         move,
		JumpPressed:  jumpHeld && !t.jumpHeld,
		JumpReleased: !jumpHeld && t.jumpHeld,
		JumpHeld:     jumpHeld,
		DashPressed:  dashHeld && !t.dashHeld,
		DashHeld:     dashHeld,
	}
	t.jumpHeld = jumpHeld
	t.dashHeld = dashHeld
	return in
}

// Reset forgets the held levels.
func (t *InputTracker) Reset() {
	t.jumpHeld = false
	t.dashHeld = false
}
