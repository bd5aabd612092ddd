package fx

import (
	"math"
	"math/rand"

	"github.com/Tiqsif/platformer-template/common"
	"github.com/Tiqsif/platformer-template/movement"
	"github.com/jakecoffman/cp"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Cue is a sound the animator wants played.
type Cue uint8

const (
	CueFootstep Cue = iota + 1
	CueBlink
)

// AnimatorSettings tunes the procedural body animation.
type AnimatorSettings struct {
	MaxTiltAngle     float64 `yaml:"max_tilt_angle"`
	BobbingSpeed     float64 `yaml:"bobbing_speed"`
	BobbingAmplitude float64 `yaml:"bobbing_amplitude"`

	BodyDeformTime       float64 `yaml:"body_deform_time"`
	BodyDeformPercentage float64 `yaml:"body_deform_percentage"`

	BlinkIntervalMin float64 `yaml:"blink_interval_min"`
	BlinkIntervalMax float64 `yaml:"blink_interval_max"`
	SquintThreshold  float64 `yaml:"squint_threshold"`
}

func DefaultAnimatorSettings() AnimatorSettings {
	return AnimatorSettings{
		MaxTiltAngle:     10,
		BobbingSpeed:     2,
		BobbingAmplitude: 0.1,

		BodyDeformTime:       0.4,
		BodyDeformPercentage: 0.2,

		BlinkIntervalMin: 1.5,
		BlinkIntervalMax: 3.5,
		SquintThreshold:  1.5,
	}
}

// Pose is the body transform to draw this frame, relative to the collider.
type Pose struct {
	Tilt     float64 // degrees
	Offset   cp.Vector
	Scale    cp.Vector
	EyeScale float64
}

type EyeState uint8

const (
	EyeStatic EyeState = iota
	EyeBlink
	EyeSquint
	EyeWide
)

func (s EyeState) String() string {
	switch s {
	case EyeBlink:
		return "blink"
	case EyeSquint:
		return "squint"
	case EyeWide:
		return "wide"
	default:
		return "static"
	}
}

const (
	eyeWiden      = 1.65
	eyeSquint     = 0.5
	eyeSquintTime = 0.5
	eyeClosed     = 0.01
	eyeBlinkTime  = 0.1
	eyeResetSpeed = 5

	footstepLevel = 0.1
)

// squash is one squash-and-stretch pulse: out to the full deform over half
// the time, then back.
type squash struct {
	tween *gween.Tween
	back  bool
	land  bool
	half  float32
	peak  float32
}

// Animator drives tilt, bobbing, squash and eye animation from movement
// state and events. It implements movement.Animator and movement.Observer.
type Animator struct {
	settings AnimatorSettings
	rng      *rand.Rand

	// Cues receives footstep and blink sounds; nil drops them.
	Cues func(Cue)

	tilt        float64
	bob         float64
	bobTime     float64
	onFootstep  bool
	deform      float64
	landing     bool
	pulse       *squash
	headBumped  bool
	eyeState    EyeState
	eyeScale    float64
	eyeFrom     float64
	eyeTween    *gween.Tween
	eyeReset    float64
	eyeBlinkOut bool
	animating   bool
	blinkTimer  float64
	nextBlink   float64
	moveTimer   float64
}

// NewAnimator creates an animator; seed drives the blink intervals.
func NewAnimator(s AnimatorSettings, seed int64) *Animator {
	a := &Animator{
		settings: s,
		rng:      rand.New(rand.NewSource(seed)),
		eyeScale: 1,
	}
	a.scheduleBlink()
	return a
}

// Tick updates tilt and the running bob from the horizontal speed.
func (a *Animator) Tick(dt, velX, maxVelX float64, grounded bool) {
	ratio := 0.0
	if maxVelX != 0 {
		ratio = math.Abs(velX / maxVelX)
	}
	a.tilt = common.Lerp(0, a.settings.MaxTiltAngle, ratio)

	if ratio >= 0.5 && grounded {
		speed := math.Pow(2, ratio) * a.settings.BobbingSpeed
		a.bobTime += dt * speed
		v := bobCurve(common.Repeat(a.bobTime, 1))
		a.bob = v * a.settings.BobbingAmplitude

		if v <= footstepLevel {
			if !a.onFootstep {
				a.cue(CueFootstep)
			}
			a.onFootstep = true
		} else {
			a.onFootstep = false
		}
	}
	if ratio < 0.1 {
		a.bob = 0
	}

	a.tickSquash(dt)
}

// bobCurve is the bob height over one step cycle, zero at the footfall.
func bobCurve(t float64) float64 {
	return math.Abs(math.Sin(math.Pi * t))
}

// OnEvent reacts to movement events.
func (a *Animator) OnEvent(e movement.Event) {
	switch e.Kind {
	case movement.EventGroundedChanged:
		if e.Value {
			a.headBumped = false
		}
	case movement.EventHeadBumped:
		a.headBumped = e.Value
		if e.Value {
			a.setEyeState(EyeBlink)
			a.startSquash(true)
		}
	case movement.EventJumpStarted, movement.EventWallJumpStarted:
		a.startSquash(false)
	case movement.EventFellFromHeight:
		a.setEyeState(EyeBlink)
		a.startSquash(true)
	}
}

func (a *Animator) startSquash(land bool) {
	half := float32(a.settings.BodyDeformTime / 2)
	peak := float32(a.settings.BodyDeformPercentage)
	a.deform = 0
	a.landing = land
	a.pulse = &squash{
		tween: gween.New(0, peak, max(half, 1e-3), ease.Linear),
		land:  land,
		half:  half,
		peak:  peak,
	}
}

func (a *Animator) tickSquash(dt float64) {
	p := a.pulse
	if p == nil {
		return
	}
	v, done := p.tween.Update(float32(dt))
	a.deform = float64(v)
	if !done {
		return
	}
	if !p.back {
		p.back = true
		p.tween = gween.New(p.peak, 0, max(p.half, 1e-3), ease.Linear)
		return
	}
	a.deform = 0
	a.pulse = nil
}

// UpdateEyes runs the eye state machine once per frame.
func (a *Animator) UpdateEyes(dt float64, vel cp.Vector, maxFallSpeed float64) {
	moving := math.Abs(vel.X) > 0.1
	fallingFast := math.Abs(vel.Y) >= maxFallSpeed*0.5

	switch {
	case a.headBumped:
		a.setEyeState(EyeBlink)

	case fallingFast:
		a.moveTimer = 0
		a.blinkTimer = 0
		a.setEyeState(EyeWide)

	case moving:
		a.blinkTimer = 0
		a.moveTimer += dt
		if a.moveTimer >= a.settings.SquintThreshold {
			a.setEyeState(EyeSquint)
		} else {
			a.setEyeState(EyeStatic)
		}

	default:
		a.moveTimer = 0
		a.blinkTimer += dt
		if a.blinkTimer >= a.nextBlink {
			if a.eyeState != EyeBlink {
				a.cue(CueBlink)
			}
			a.setEyeState(EyeBlink)
		} else if a.eyeState != EyeBlink || !a.animating {
			a.setEyeState(EyeStatic)
		}
	}

	a.tickEyes(dt)
}

func (a *Animator) setEyeState(s EyeState) {
	if s == a.eyeState {
		return
	}
	a.eyeState = s
	a.animating = true
	a.eyeTween = nil

	switch s {
	case EyeStatic:
		a.eyeFrom = a.eyeScale
		a.eyeReset = 0
	case EyeWide:
		a.eyeScale = 1
		a.eyeTween = gween.New(1, eyeWiden, eyeWiden, ease.Linear)
	case EyeSquint:
		a.eyeTween = gween.New(1, eyeSquint, eyeSquintTime, ease.Linear)
	case EyeBlink:
		a.eyeBlinkOut = false
		a.eyeTween = gween.New(1, eyeClosed, eyeBlinkTime, ease.Linear)
	}
}

func (a *Animator) tickEyes(dt float64) {
	if !a.animating {
		return
	}

	if a.eyeState == EyeStatic {
		a.eyeReset += dt * eyeResetSpeed
		if a.eyeReset >= 1 {
			a.eyeScale = 1
			a.animating = false
			return
		}
		a.eyeScale = common.Lerp(a.eyeFrom, 1, a.eyeReset)
		return
	}

	if a.eyeTween == nil {
		a.animating = false
		return
	}
	v, done := a.eyeTween.Update(float32(dt))
	a.eyeScale = float64(v)
	if !done {
		return
	}

	if a.eyeState == EyeBlink {
		if !a.eyeBlinkOut {
			a.eyeBlinkOut = true
			a.eyeTween = gween.New(eyeClosed, 1, eyeBlinkTime, ease.Linear)
			return
		}
		a.scheduleBlink()
		a.headBumped = false
	}
	a.eyeTween = nil
	a.animating = false
}

func (a *Animator) scheduleBlink() {
	a.blinkTimer = 0
	lo, hi := a.settings.BlinkIntervalMin, a.settings.BlinkIntervalMax
	if hi < lo {
		lo, hi = hi, lo
	}
	a.nextBlink = lo + a.rng.Float64()*(hi-lo)
}

func (a *Animator) cue(c Cue) {
	if a.Cues != nil {
		a.Cues(c)
	}
}

// Pose returns the body transform for drawing.
func (a *Animator) Pose() Pose {
	d := a.deform
	scale := cp.Vector{X: 1 - d, Y: 1 + d}
	offset := cp.Vector{X: 0, Y: a.bob}
	if a.landing {
		scale = cp.Vector{X: 1 + d, Y: 1 - d}
		offset.Y -= d
	}
	return Pose{Tilt: a.tilt, Offset: offset, Scale: scale, EyeScale: a.eyeScale}
}

func (a *Animator) EyeState() EyeState {
	return a.eyeState
}

// NextBlink returns the idle time before the next blink.
func (a *Animator) NextBlink() float64 {
	return a.nextBlink
}
