package sim

// System runs once per rendered frame, after the controller's frame update.
type System interface {
	Update(w *World)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) {
	f(w)
}

type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		system.Update(w)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}

// CameraSystem follows the player body.
type CameraSystem struct{}

func (CameraSystem) Update(w *World) {
	if w.Camera == nil || w.Body == nil {
		return
	}
	w.Camera.Update(w.DT, w.Body.Position(), w.Body.Velocity())
}

// EyeSystem runs the animator's eye state machine.
type EyeSystem struct{}

func (EyeSystem) Update(w *World) {
	if w.Animator == nil || w.Body == nil {
		return
	}
	w.Animator.UpdateEyes(w.DT, w.Body.Velocity(), w.Controller.Stats().MaxFallSpeed)
}

type ParticleSystem struct{}

func (ParticleSystem) Update(w *World) {
	if w.Particles != nil {
		w.Particles.Update(w.DT)
	}
}

// KillPlaneSystem respawns the player once it falls KillDepth units below
// the level.
type KillPlaneSystem struct {
	KillDepth float64
}

func (k KillPlaneSystem) Update(w *World) {
	if w.Body == nil || w.Level == nil {
		return
	}
	if w.Body.Position().Y > -k.KillDepth {
		return
	}
	w.Respawn()
}
