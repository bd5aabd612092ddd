package fx

import (
	"math"
	"math/rand"

	"github.com/Tiqsif/platformer-template/movement"
	"github.com/jakecoffman/cp"
)

type ParticleKind uint8

const (
	ParticleJump ParticleKind = iota + 1
	ParticleLand
	ParticleDoubleJump
	ParticleDash
)

func (k ParticleKind) String() string {
	switch k {
	case ParticleJump:
		return "jump"
	case ParticleLand:
		return "land"
	case ParticleDoubleJump:
		return "double-jump"
	case ParticleDash:
		return "dash"
	default:
		return "unknown"
	}
}

type Particle struct {
	Kind ParticleKind
	Pos  cp.Vector
	Vel  cp.Vector
	Age  float64
	Life float64
}

// Alpha fades from 1 at birth to 0 at the end of life.
func (p Particle) Alpha() float64 {
	if p.Life <= 0 {
		return 0
	}
	return math.Max(0, 1-p.Age/p.Life)
}

type burst struct {
	count int
	speed float64
	life  float64
	// spread is the half angle of the emission cone in radians around up.
	spread float64
	feet   bool
}

var bursts = map[ParticleKind]burst{
	ParticleJump:       {count: 6, speed: 3, life: 0.3, spread: math.Pi / 2, feet: true},
	ParticleLand:       {count: 8, speed: 4, life: 0.35, spread: math.Pi / 2, feet: true},
	ParticleDoubleJump: {count: 10, speed: 5, life: 0.4, spread: math.Pi},
	ParticleDash:       {count: 8, speed: 2, life: 0.25, spread: math.Pi},
}

// Emitter spawns particle bursts from movement events and ages them. Event
// positions are body centers; FeetOffset moves feet bursts down to the
// collider bottom.
type Emitter struct {
	FeetOffset float64

	rng       *rand.Rand
	particles []Particle
}

func NewEmitter(feetOffset float64, seed int64) *Emitter {
	return &Emitter{
		FeetOffset: feetOffset,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

func (e *Emitter) OnEvent(ev movement.Event) {
	switch ev.Kind {
	case movement.EventFirstJumpStarted:
		e.Emit(ParticleJump, ev.Position)
	case movement.EventFellFromHeight:
		e.Emit(ParticleLand, ev.Position)
	case movement.EventDoubleJumpStarted:
		e.Emit(ParticleDoubleJump, ev.Position)
	case movement.EventDashStarted:
		e.Emit(ParticleDash, ev.Position)
	}
}

// Emit spawns one burst of kind around a body centered at center.
func (e *Emitter) Emit(kind ParticleKind, center cp.Vector) {
	b, ok := bursts[kind]
	if !ok {
		return
	}
	origin := center
	if b.feet {
		origin.Y += e.FeetOffset
	}
	for range b.count {
		angle := math.Pi/2 + (e.rng.Float64()*2-1)*b.spread
		speed := b.speed * (0.5 + e.rng.Float64()/2)
		e.particles = append(e.particles, Particle{
			Kind: kind,
			Pos:  origin,
			Vel:  cp.ForAngle(angle).Mult(speed),
			Life: b.life,
		})
	}
}

// Update moves live particles and drops the expired ones.
func (e *Emitter) Update(dt float64) {
	if !(dt > 0) {
		return
	}
	live := e.particles[:0]
	for _, p := range e.particles {
		p.Age += dt
		if p.Age >= p.Life {
			continue
		}
		p.Pos = p.Pos.Add(p.Vel.Mult(dt))
		live = append(live, p)
	}
	e.particles = live
}

func (e *Emitter) Particles() []Particle {
	return e.particles
}

func (e *Emitter) Len() int {
	return len(e.particles)
}
