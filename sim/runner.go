// Package sim wires a level, a physics backend and the movement controller
// into a fixed-step game loop.
package sim

import (
	"errors"
	"fmt"
	"log"

	"github.com/Tiqsif/platformer-template/camera"
	"github.com/Tiqsif/platformer-template/fx"
	"github.com/Tiqsif/platformer-template/levels"
	"github.com/Tiqsif/platformer-template/movement"
	"github.com/Tiqsif/platformer-template/physics"
	"github.com/Tiqsif/platformer-template/prefabs"
	"github.com/Tiqsif/platformer-template/script"
	"github.com/jakecoffman/cp"
)

var ErrUnknownBackend = errors.New("sim: unknown physics backend")

const (
	BackendChipmunk = "cp"
	BackendGrid     = "grid"

	DefaultFixedDT = 1.0 / 50
	// maxFixedSteps bounds the catch-up after a long frame.
	maxFixedSteps = 8
	killDepth     = 10
)

type Config struct {
	Level  *levels.Level
	Player *prefabs.PlayerSpec
	Camera camera.Settings

	Backend string
	FixedDT float64
	// Gravity is the world gravity handed to the physics backend and used
	// as the controller's ambient gravity. Zero means movement's default.
	Gravity float64
	Seed    int64

	ScreenW int
	ScreenH int
}

// World is everything the per-frame systems can touch.
type World struct {
	Level      *levels.Level
	Physics    physics.Backend
	Body       physics.Actor
	Controller *movement.Controller
	Camera     *camera.Camera
	Animator   *fx.Animator
	Particles  *fx.Emitter

	Input movement.Input
	DT    float64
	Frame int
	Time  float64

	spawn cp.Vector
}

// Respawn puts the player back on the level spawn with a fresh state.
func (w *World) Respawn() {
	w.Body.Teleport(w.spawn)
	w.Controller.Reset()
	if w.Camera != nil {
		w.Camera.SnapTo(w.spawn.X, w.spawn.Y)
	}
}

type Runner struct {
	world     *World
	fixedDT   float64
	acc       float64
	scheduler *Scheduler
	events    *movement.EventQueue
}

func New(cfg Config) (*Runner, error) {
	if cfg.Level == nil {
		return nil, errors.New("sim: no level")
	}
	if cfg.Player == nil {
		spec, err := prefabs.LoadPlayerSpec(prefabs.PlayerMovementFile)
		if err != nil {
			return nil, err
		}
		cfg.Player = spec
	}
	if !(cfg.FixedDT > 0) {
		cfg.FixedDT = DefaultFixedDT
	}
	if cfg.Camera == (camera.Settings{}) {
		cfg.Camera = camera.DefaultSettings()
	}
	gravity := cfg.Gravity
	if gravity == 0 {
		gravity = movement.DefaultAmbientGravity
	}

	var backend physics.Backend
	switch cfg.Backend {
	case "", BackendChipmunk:
		backend = physics.NewWorld(gravity)
	case BackendGrid:
		backend = physics.NewGrid(cfg.Level.Width, cfg.Level.Height)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	cfg.Level.AddTo(backend)

	size := cp.Vector{X: cfg.Player.Body.Width, Y: cfg.Player.Body.Height}
	spawn := cfg.Level.Spawn.Add(cp.Vector{X: 0, Y: size.Y / 2})
	body := backend.Spawn(spawn, size)

	cam := camera.New(cfg.ScreenW, cfg.ScreenH, cfg.Camera)
	cam.SetWorldBounds(float64(cfg.Level.Width), float64(cfg.Level.Height))
	cam.SnapTo(spawn.X, spawn.Y)

	anim := fx.NewAnimator(cfg.Player.Animation, cfg.Seed)
	particles := fx.NewEmitter(-size.Y/2, cfg.Seed)

	ctrl := movement.New(movement.Options{
		Stats:          cfg.Player.Stats,
		Body:           body,
		Caster:         backend,
		Camera:         cam,
		Shaker:         cam,
		Animator:       anim,
		AmbientGravity: gravity,
	})

	events := &movement.EventQueue{}
	ctrl.Subscribe(anim)
	ctrl.Subscribe(particles)
	ctrl.Subscribe(events)

	w := &World{
		Level:      cfg.Level,
		Physics:    backend,
		Body:       body,
		Controller: ctrl,
		Camera:     cam,
		Animator:   anim,
		Particles:  particles,
		spawn:      spawn,
	}
	log.Printf("sim: level %s on %s backend, spawn (%.2f, %.2f)", cfg.Level.Name, backendName(cfg.Backend), spawn.X, spawn.Y)

	return &Runner{
		world:   w,
		fixedDT: cfg.FixedDT,
		scheduler: NewScheduler(
			CameraSystem{},
			EyeSystem{},
			ParticleSystem{},
			KillPlaneSystem{KillDepth: killDepth},
		),
		events: events,
	}, nil
}

func backendName(b string) string {
	if b == "" {
		return BackendChipmunk
	}
	return b
}

func (r *Runner) World() *World {
	return r.world
}

func (r *Runner) Scheduler() *Scheduler {
	return r.scheduler
}

// Subscribe adds an observer to the controller's events.
func (r *Runner) Subscribe(o movement.Observer) func() {
	return r.world.Controller.Subscribe(o)
}

// SetStats swaps the movement profile between frames.
func (r *Runner) SetStats(s movement.Stats) {
	r.world.Controller.SetStats(s)
}

// Step advances one rendered frame of length dt: the fixed steps that fit
// into the accumulated time (controller, then physics), then the frame
// update and the frame systems. It returns the events raised during the
// frame.
func (r *Runner) Step(dt float64, in movement.Input) []movement.Event {
	w := r.world
	if !(dt > 0) {
		return nil
	}

	r.acc += dt
	for steps := 0; r.acc >= r.fixedDT; steps++ {
		if steps == maxFixedSteps {
			r.acc = 0
			break
		}
		w.Controller.FixedUpdate(r.fixedDT)
		w.Physics.Step(r.fixedDT)
		r.acc -= r.fixedDT
	}

	w.Input = in
	w.DT = dt
	w.Controller.Update(dt, in)
	r.scheduler.Update(w)

	w.Frame++
	w.Time += dt
	return r.events.Drain()
}

// InputSource produces one frame of input from the current character state.
type InputSource interface {
	Next(dt float64, obs script.Observation) (movement.Input, error)
}

// Run steps frames frames of length dt with input from src. onFrame, when
// set, sees every frame's events.
func (r *Runner) Run(src InputSource, frames int, dt float64, onFrame func(frame int, events []movement.Event)) error {
	for range frames {
		obs := script.Observe(r.world.Controller, r.world.Body)
		in, err := src.Next(dt, obs)
		if err != nil {
			return err
		}
		frame := r.world.Frame
		events := r.Step(dt, in)
		if onFrame != nil {
			onFrame(frame, events)
		}
	}
	return nil
}
