package main

import (
	"math"

	"github.com/Tiqsif/platformer-template/movement"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
)

const stickDeadzone = 0.2

// Input polls keyboard and the first gamepad into movement input.
type Input struct {
	tracker movement.InputTracker
}

func NewInput() *Input {
	return &Input{}
}

// Poll samples this frame's controls. Pressed and released edges come from
// the tracker so keyboard and gamepad share one held level.
func (i *Input) Poll() movement.Input {
	var move cp.Vector
	// Keyboard A/D W/S or arrows
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		move.X -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		move.X += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		move.Y += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		move.Y -= 1
	}
	jump := ebiten.IsKeyPressed(ebiten.KeySpace)
	dash := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyJ)

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Abs(lx) > stickDeadzone {
			move.X = lx
		}
		// gamepad y points down
		if math.Abs(ly) > stickDeadzone {
			move.Y = -ly
		}

		jump = jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		// X button (standard mapping: right-left) or right shoulder
		dash = dash ||
			ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightLeft) ||
			ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontTopRight)
	}

	return i.tracker.Sample(move, jump, dash)
}

// Reset forgets held buttons, e.g. after a respawn or unpause.
func (i *Input) Reset() {
	i.tracker.Reset()
}

// hotkey reports a single-frame key press.
func hotkey(k ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(k)
}
