// Package script drives a movement controller from a tengo script. The
// script defines sample(frame, t, state) and returns a map with move_x,
// move_y, jump and dash; missing keys read as zero or false.
package script

import (
	"errors"
	"fmt"

	"github.com/Tiqsif/platformer-template/movement"
	"github.com/Tiqsif/platformer-template/prefabs"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
)

// ErrNoSampleFunc is returned for a script that does not define sample.
var ErrNoSampleFunc = errors.New("script: sample function not defined")

const sampleDispatch = `
__out = sample(__frame, __time, __state)
`

// Observation is the character state handed to the script each frame.
type Observation struct {
	Position    cp.Vector
	Velocity    cp.Vector
	Grounded    bool
	WallSliding bool
	FacingRight bool
	Mode        movement.Mode
}

// Observe snapshots a controller and its body for the script.
func Observe(c *movement.Controller, body movement.Body) Observation {
	st := c.State()
	var pos cp.Vector
	if body != nil {
		pos = body.Position()
	}
	return Observation{
		Position:    pos,
		Velocity:    cp.Vector{X: st.HorizontalVelocity, Y: st.VerticalVelocity},
		Grounded:    st.Grounded,
		WallSliding: st.WallSliding,
		FacingRight: st.FacingRight,
		Mode:        c.Mode(),
	}
}

type Source struct {
	name     string
	compiled *tengo.Compiled
	tracker  movement.InputTracker
	frame    int
	time     float64
}

// Load compiles an embedded or on-disk script from the prefabs scripts.
func Load(name string) (*Source, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return Compile(name, src)
}

func Compile(name string, src []byte) (*Source, error) {
	if err := checkSample(src); err != nil {
		return nil, fmt.Errorf("script: %s: %w", name, err)
	}

	s := tengo.NewScript(append(append([]byte{}, src...), sampleDispatch...))
	_ = s.Add("__frame", 0)
	_ = s.Add("__time", 0.0)
	_ = s.Add("__state", map[string]any{})
	_ = s.Add("__out", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &Source{name: name, compiled: compiled}, nil
}

// checkSample runs the bare script once and makes sure sample is callable.
func checkSample(src []byte) error {
	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	compiled, err := s.Compile()
	if err != nil {
		return err
	}
	if err := execute(compiled); err != nil {
		return err
	}
	if !compiled.IsDefined("sample") || !compiled.Get("sample").Object().CanCall() {
		return ErrNoSampleFunc
	}
	return nil
}

func (s *Source) Name() string {
	return s.name
}

// Frame is the number of samples taken so far.
func (s *Source) Frame() int {
	return s.frame
}

// Next runs sample for the next frame and turns its button levels into
// edge-triggered input.
func (s *Source) Next(dt float64, obs Observation) (movement.Input, error) {
	if err := s.compiled.Set("__frame", s.frame); err != nil {
		return movement.Input{}, err
	}
	if err := s.compiled.Set("__time", s.time); err != nil {
		return movement.Input{}, err
	}
	if err := s.compiled.Set("__state", obs.toMap()); err != nil {
		return movement.Input{}, err
	}
	if err := execute(s.compiled); err != nil {
		return movement.Input{}, fmt.Errorf("script: %s frame %d: %w", s.name, s.frame, err)
	}
	s.frame++
	s.time += dt

	out := s.compiled.Get("__out").Map()
	move := cp.Vector{X: number(out["move_x"]), Y: number(out["move_y"])}
	return s.tracker.Sample(move, truthy(out["jump"]), truthy(out["dash"])), nil
}

// execute runs c, turning a VM panic such as an integer divide by zero into
// an error.
func execute(c *tengo.Compiled) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("runtime panic: %v", r)
		}
	}()
	return c.Run()
}

// Reset rewinds the frame counter and forgets held buttons.
func (s *Source) Reset() {
	s.frame = 0
	s.time = 0
	s.tracker.Reset()
}

func (o Observation) toMap() map[string]any {
	return map[string]any{
		"x":            o.Position.X,
		"y":            o.Position.Y,
		"vx":           o.Velocity.X,
		"vy":           o.Velocity.Y,
		"grounded":     o.Grounded,
		"wall_sliding": o.WallSliding,
		"facing_right": o.FacingRight,
		"mode":         o.Mode.String(),
	}
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case bool:
		if n {
			return 1
		}
	}
	return 0
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case float64:
		return b != 0
	}
	return false
}
