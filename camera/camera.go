package camera

import (
	"math"

	"github.com/Tiqsif/platformer-template/common"
	"github.com/jakecoffman/cp"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Settings tunes the follow camera. Durations are seconds, distances are
// world units.
type Settings struct {
	Zoom   float64 `yaml:"zoom"`
	Smooth float64 `yaml:"smooth"`

	NormalYDamping      float64 `yaml:"normal_y_damping"`
	NormalLookAheadTime float64 `yaml:"normal_look_ahead_time"`

	FallPanAmount                    float64 `yaml:"fall_pan_amount"`
	FallYPanTime                     float64 `yaml:"fall_y_pan_time"`
	FallSpeedYDampingChangeThreshold float64 `yaml:"fall_speed_y_damping_change_threshold"`

	FallLookAheadTime               float64 `yaml:"fall_look_ahead_time"`
	FallLookAheadTimeChangeDuration float64 `yaml:"fall_look_ahead_time_change_duration"`

	ShakeForce     float64 `yaml:"shake_force"`
	ShakeDuration  float64 `yaml:"shake_duration"`
	ShakeFrequency float64 `yaml:"shake_frequency"`
}

func DefaultSettings() Settings {
	return Settings{
		Zoom:   32,
		Smooth: 0.15,

		NormalYDamping:      1,
		NormalLookAheadTime: 0,

		FallPanAmount:                    0.25,
		FallYPanTime:                     0.35,
		FallSpeedYDampingChangeThreshold: -15,

		FallLookAheadTime:               0.45,
		FallLookAheadTimeChangeDuration: 0.4,

		ShakeForce:     1,
		ShakeDuration:  0.25,
		ShakeFrequency: 30,
	}
}

// defaultImpulse is the kick used by Shake.
var defaultImpulse = cp.Vector{X: 0, Y: -0.15}

// Camera follows a target in world space (y up). It owns the vertical
// damping and look-ahead lerps the movement controller asks for, and a
// decaying impulse shake.
type Camera struct {
	PosX float64
	PosY float64

	settings Settings

	screenW int
	screenH int
	worldW  float64
	worldH  float64

	yDamping         float64
	lookAheadTime    float64
	lookAheadIgnoreY bool
	lerpedFromFall   bool

	yTween    *gween.Tween
	lookTween *gween.Tween

	impulse    cp.Vector
	shakeTime  float64
	shakeTotal float64
}

// New creates a camera for a logical screen size in pixels.
func New(screenW, screenH int, s Settings) *Camera {
	if s.Zoom <= 0 {
		s.Zoom = 1
	}
	return &Camera{
		settings:         s,
		screenW:          screenW,
		screenH:          screenH,
		yDamping:         s.NormalYDamping,
		lookAheadTime:    s.NormalLookAheadTime,
		lookAheadIgnoreY: true,
	}
}

func (c *Camera) Settings() Settings {
	return c.settings
}

// SetSettings swaps the tuning. Running lerps keep their targets.
func (c *Camera) SetSettings(s Settings) {
	if s.Zoom <= 0 {
		s.Zoom = c.settings.Zoom
	}
	c.settings = s
}

func (c *Camera) SetScreenSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.screenW = w
	c.screenH = h
}

// SetWorldBounds sets the world size used for clamping; zero means unbounded.
func (c *Camera) SetWorldBounds(w, h float64) {
	c.worldW = w
	c.worldH = h
}

func (c *Camera) Zoom() float64 {
	return c.settings.Zoom
}

// YDamping is the current vertical follow damping in seconds.
func (c *Camera) YDamping() float64 {
	return c.yDamping
}

// LookAheadTime is the current look-ahead horizon in seconds.
func (c *Camera) LookAheadTime() float64 {
	return c.lookAheadTime
}

// RequestYDampingLerp starts a lerp of the vertical damping toward the fall
// pan amount, or back to normal. A running lerp is replaced.
func (c *Camera) RequestYDampingLerp(falling bool) {
	end := c.settings.NormalYDamping
	if falling {
		end = c.settings.FallPanAmount
		c.lerpedFromFall = true
	} else {
		c.lerpedFromFall = false
	}
	c.yTween = newTween(c.yDamping, end, c.settings.FallYPanTime)
}

// RequestLookAheadLerp starts a lerp of the look-ahead time toward the fall
// value, or back to normal. Vertical look-ahead is only used while falling.
func (c *Camera) RequestLookAheadLerp(highFall bool) {
	end := c.settings.NormalLookAheadTime
	c.lookAheadIgnoreY = !highFall
	if highFall {
		end = c.settings.FallLookAheadTime
	}
	c.lookTween = newTween(c.lookAheadTime, end, c.settings.FallLookAheadTimeChangeDuration)
}

func (c *Camera) IsLerpingYDamping() bool      { return c.yTween != nil }
func (c *Camera) IsLerpingLookAheadTime() bool { return c.lookTween != nil }
func (c *Camera) HasLerpedFromFall() bool      { return c.lerpedFromFall }

func (c *Camera) FallSpeedThreshold() float64 {
	return c.settings.FallSpeedYDampingChangeThreshold
}

// Shake kicks the camera with the default impulse.
func (c *Camera) Shake() {
	c.ShakeWith(defaultImpulse)
}

// ShakeWith kicks the camera with v scaled by the global shake force. A new
// kick replaces the one in progress.
func (c *Camera) ShakeWith(v cp.Vector) {
	c.impulse = v.Mult(c.settings.ShakeForce)
	c.shakeTotal = c.settings.ShakeDuration
	c.shakeTime = 0
}

// Shaking reports whether an impulse is still decaying.
func (c *Camera) Shaking() bool {
	return c.shakeTime < c.shakeTotal
}

// ShakeOffset returns the current shake displacement in world units.
func (c *Camera) ShakeOffset() cp.Vector {
	if !c.Shaking() || c.shakeTotal <= 0 {
		return cp.Vector{}
	}
	decay := 1 - c.shakeTime/c.shakeTotal
	wave := math.Sin(c.shakeTime * c.settings.ShakeFrequency * 2 * math.Pi)
	if c.shakeTime == 0 {
		wave = 1
	}
	return c.impulse.Mult(decay * wave)
}

// Update advances the lerps and the shake and moves toward target. vel is
// the target's velocity and feeds the look-ahead.
func (c *Camera) Update(dt float64, target, vel cp.Vector) {
	if !(dt > 0) {
		return
	}
	c.advance(dt)

	goal := target
	goal.X += vel.X * c.lookAheadTime
	if !c.lookAheadIgnoreY {
		goal.Y += vel.Y * c.lookAheadTime
	}

	c.PosX += (goal.X - c.PosX) * c.settings.Smooth
	c.PosY += (goal.Y - c.PosY) * damp(c.yDamping, dt)
	c.clampToWorld()
}

func (c *Camera) advance(dt float64) {
	step := float32(dt)
	if c.yTween != nil {
		v, done := c.yTween.Update(step)
		c.yDamping = float64(v)
		if done {
			c.yTween = nil
		}
	}
	if c.lookTween != nil {
		v, done := c.lookTween.Update(step)
		c.lookAheadTime = float64(v)
		if done {
			c.lookTween = nil
		}
	}
	if c.Shaking() {
		c.shakeTime += dt
	}
}

// damp converts a damping time into a per-step follow factor. Zero damping
// snaps.
func damp(damping, dt float64) float64 {
	if damping <= 0 {
		return 1
	}
	return 1 - math.Exp(-dt/damping)
}

// SnapTo places the camera immediately, clamped to the world.
func (c *Camera) SnapTo(x, y float64) {
	c.PosX = x
	c.PosY = y
	c.clampToWorld()
}

func (c *Camera) clampToWorld() {
	halfW, halfH := c.halfView()
	if c.worldW > 0 {
		if c.worldW < 2*halfW {
			c.PosX = c.worldW / 2
		} else {
			c.PosX = common.Clamp(c.PosX, halfW, c.worldW-halfW)
		}
	}
	if c.worldH > 0 {
		if c.worldH < 2*halfH {
			c.PosY = c.worldH / 2
		} else {
			c.PosY = common.Clamp(c.PosY, halfH, c.worldH-halfH)
		}
	}
}

func (c *Camera) halfView() (float64, float64) {
	return float64(c.screenW) / c.settings.Zoom / 2, float64(c.screenH) / c.settings.Zoom / 2
}

// ViewTopLeft returns the world-space top-left corner of the view, shake
// included.
func (c *Camera) ViewTopLeft() (float64, float64) {
	halfW, halfH := c.halfView()
	off := c.ShakeOffset()
	return c.PosX + off.X - halfW, c.PosY + off.Y + halfH
}

// WorldToScreen maps a world point to screen pixels (y down).
func (c *Camera) WorldToScreen(p cp.Vector) (float64, float64) {
	left, top := c.ViewTopLeft()
	return (p.X - left) * c.settings.Zoom, (top - p.Y) * c.settings.Zoom
}

func newTween(from, to, duration float64) *gween.Tween {
	return gween.New(float32(from), float32(to), float32(max(duration, 1e-3)), ease.Linear)
}
