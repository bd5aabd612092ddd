package movement

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDashDirection(t *testing.T) {
	ne := DashDirections[2]
	cases := []struct {
		name        string
		in          cp.Vector
		facingRight bool
		bias        float64
		want        cp.Vector
	}{
		{"neutral_facing_right", cp.Vector{}, true, 0.4, right},
		{"neutral_facing_left", cp.Vector{}, false, 0.4, left},
		{"tiny_input_uses_facing", cp.Vector{X: 0.05}, false, 0.4, left},
		{"exact_right", cp.Vector{X: 1}, false, 0.4, right},
		{"exact_down", cp.Vector{Y: -1}, true, 0.4, down},
		{"raw_diagonal", cp.Vector{X: 1, Y: 1}, true, 0, ne},
		{"near_diagonal", cp.Vector{X: 0.6, Y: 0.55}, true, 0, ne},
		{"shallow_without_bias", cp.Vector{X: 0.9, Y: 0.2}, true, 0, right},
		{"shallow_with_bias", cp.Vector{X: 0.9, Y: 0.2}, true, 0.4, ne},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ResolveDashDirection(c.in, c.facingRight, c.bias))
		})
	}
}

func TestGroundDashCooldown(t *testing.T) {
	r := newRig(t, DefaultStats(), standing(0, floorTop), ground())
	r.idle(3)
	dash := Input{DashPressed: true, DashHeld: true}

	evs := r.frame(dash)
	require.Equal(t, 1, count(evs, EventDashStarted))
	st := r.ctrl.State()
	assert.True(t, st.Dashing)
	assert.False(t, st.AirDashing)
	assert.Equal(t, 1, st.DashesUsed)
	assert.Equal(t, right, st.DashDirection)

	// still dashing
	assert.Zero(t, count(r.frame(dash), EventDashStarted))
	assert.Equal(t, 40.0, r.world.vel.X)

	r.idle(5)
	assert.False(t, r.ctrl.State().Dashing)
	assert.Zero(t, r.ctrl.State().DashesUsed, "ground dash refills on finish")

	// cooldown not yet elapsed
	assert.Zero(t, count(r.frame(dash), EventDashStarted))

	r.idle(6)
	assert.Equal(t, 1, count(r.frame(dash), EventDashStarted))
}

func TestUpwardAirDash(t *testing.T) {
	r := newRig(t, DefaultStats(), cp.Vector{X: 0, Y: 20})
	r.idle(2)

	evs := r.frame(Input{Move: cp.Vector{Y: 1}, DashPressed: true, DashHeld: true})
	require.Equal(t, []EventKind{EventDashStarted}, kinds(evs))
	st := r.ctrl.State()
	assert.True(t, st.AirDashing)
	assert.Equal(t, ModeDashing, st.Mode())
	assert.Equal(t, up, st.DashDirection)

	r.idle(1)
	assert.Equal(t, cp.Vector{X: 0, Y: 40}, r.world.vel)

	r.idle(7)
	st = r.ctrl.State()
	assert.False(t, st.Dashing)
	assert.False(t, st.AirDashing)
	assert.True(t, st.DashFastFalling)
	assert.Equal(t, ModeDashFastFalling, st.Mode())
	assert.Less(t, st.VerticalVelocity, 40.0)
}

func TestAirDashesAreLimited(t *testing.T) {
	r := newRig(t, DefaultStats(), cp.Vector{X: 0, Y: 50})
	dash := Input{DashPressed: true, DashHeld: true}

	started := 0
	for range 3 {
		started += count(r.frame(dash), EventDashStarted)
		r.idle(8)
	}
	assert.Equal(t, 2, started)
	assert.Equal(t, 2, r.ctrl.State().DashesUsed)
}

func TestDisabledDashIgnoresInput(t *testing.T) {
	s := DefaultStats()
	s.EnableDash = false
	r := newRig(t, s, standing(0, floorTop), ground())
	r.idle(3)

	evs := r.frame(Input{DashPressed: true})
	assert.Zero(t, count(evs, EventDashStarted))
	assert.False(t, r.ctrl.State().Dashing)
}
