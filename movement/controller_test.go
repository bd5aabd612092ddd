package movement

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroundedJumpEventOrder(t *testing.T) {
	r := newRig(t, DefaultStats(), standing(0, floorTop), ground())

	evs := r.idle(3)
	require.Equal(t, []EventKind{EventGroundedChanged}, kinds(evs))
	require.True(t, evs[0].Value)

	evs = r.press()
	assert.Equal(t, []EventKind{EventJumpStarted, EventFirstJumpStarted}, kinds(evs))

	st := r.ctrl.State()
	assert.True(t, st.Jumping)
	assert.Equal(t, 1, st.JumpsUsed)
	assert.InDelta(t, r.ctrl.Stats().InitialJumpVelocity(), st.VerticalVelocity, 1e-9)
	assert.Equal(t, ModeJumping, st.Mode())

	evs = r.idle(2)
	require.Equal(t, []EventKind{EventGroundedChanged}, kinds(evs))
	assert.False(t, evs[0].Value)
}

func TestJumpReachesConfiguredApex(t *testing.T) {
	s := DefaultStats()
	s.ApexThreshold = 1
	r := newRig(t, s, standing(0, floorTop), ground())
	r.dt = 1.0 / 600
	r.idle(3)
	startY := r.world.pos.Y
	r.press()

	peak, peakFrame := startY, 0
	for i := 1; i < 1000; i++ {
		r.frame(Input{JumpHeld: true})
		y := r.world.pos.Y
		if y > peak {
			peak, peakFrame = y, i
		}
		if y < peak-0.5 {
			break
		}
	}

	stats := r.ctrl.Stats()
	assert.InDelta(t, stats.AdjustedJumpHeight(), peak-startY, 0.1)
	assert.InDelta(t, stats.TimeToJumpApex, float64(peakFrame)*r.dt, 2*r.dt)
}

// holdJump runs frames with jump held and returns the vertical velocity and
// apex flag after each one.
func (r *rig) holdJump(n int) ([]float64, []bool) {
	vys := make([]float64, 0, n)
	past := make([]bool, 0, n)
	for range n {
		r.frame(Input{JumpHeld: true})
		st := r.ctrl.State()
		vys = append(vys, st.VerticalVelocity)
		past = append(past, st.PastApexThreshold || st.PastWallJumpApex)
	}
	return vys, past
}

func firstZero(vys []float64) int {
	for i, v := range vys {
		if v == 0 {
			return i
		}
	}
	return -1
}

func TestApexHang(t *testing.T) {
	r := newRig(t, DefaultStats(), standing(0, floorTop), ground())
	r.idle(3)
	r.press()

	vys, past := r.holdJump(30)
	first := firstZero(vys)
	require.Greater(t, first, 0, "never reached the apex")
	assert.Greater(t, vys[first-1], 0.0)
	assert.False(t, past[first-1])

	// 0.07 s of hang is three 0.02 s steps.
	assert.Equal(t, []float64{0, 0, 0, -0.01}, vys[first:first+4])
	assert.True(t, past[first])
	assert.True(t, past[first+3])
	assert.Less(t, vys[first+4], -0.01)
	assert.True(t, r.ctrl.State().Jumping)
}

// An air jump keeps the apex flag until the next fixed step, so a release
// arriving before that step cancels the rise outright.
func TestReleasePastApexCancelsRise(t *testing.T) {
	r := newRig(t, DefaultStats(), standing(0, floorTop), ground())
	r.idle(3)
	r.press()
	_, past := r.holdJump(25)
	require.True(t, past[len(past)-1])

	evs := r.press()
	require.Equal(t, 1, count(evs, EventDoubleJumpStarted))
	st := r.ctrl.State()
	require.True(t, st.PastApexThreshold)
	require.Greater(t, st.VerticalVelocity, 0.0)

	r.ctrl.Update(r.dt, Input{JumpReleased: true})
	st = r.ctrl.State()
	assert.True(t, st.FastFalling)
	assert.False(t, st.PastApexThreshold)
	assert.Equal(t, r.ctrl.Stats().TimeForUpwardsCancel, st.FastFallTime)
	assert.Zero(t, st.VerticalVelocity)

	r.idle(1)
	assert.Less(t, r.ctrl.State().VerticalVelocity, 0.0)
}

func TestTapJumpIsShort(t *testing.T) {
	r := newRig(t, DefaultStats(), standing(0, floorTop), ground())
	r.idle(3)
	startY := r.world.pos.Y

	evs := r.frame(Input{JumpPressed: true, JumpReleased: true})
	require.Equal(t, 1, count(evs, EventFirstJumpStarted))
	assert.True(t, r.ctrl.State().FastFalling)

	peak := startY
	for range 60 {
		r.idle(1)
		peak = math.Max(peak, r.world.pos.Y)
	}
	assert.Less(t, peak-startY, r.ctrl.Stats().AdjustedJumpHeight()/2)
	assert.Greater(t, peak-startY, 0.5)
}

func TestCoyoteJumpAfterLeavingLedge(t *testing.T) {
	ledge := cp.BB{L: -10, B: -2, R: 1, T: 0}
	r := newRig(t, DefaultStats(), standing(0, 0), ledge)
	r.idle(3)

	r.world.pos.X = 3
	evs := r.idle(2)
	require.Equal(t, 1, count(evs, EventGroundedChanged))
	require.Greater(t, r.ctrl.State().CoyoteTimer, 0.0)

	evs = r.press()
	assert.Equal(t, []EventKind{EventJumpStarted, EventFirstJumpStarted}, kinds(evs))
	assert.Equal(t, 1, r.ctrl.State().JumpsUsed)
	assert.Zero(t, r.shaker.shakes)
}

func TestLapsedCoyoteSpendsBothJumps(t *testing.T) {
	ledge := cp.BB{L: -10, B: -2, R: 1, T: 0}
	r := newRig(t, DefaultStats(), standing(0, 0), ledge)
	r.idle(3)

	r.world.pos.X = 3
	r.idle(10)
	require.Less(t, r.ctrl.State().CoyoteTimer, 0.0)
	require.True(t, r.ctrl.State().Falling)

	evs := r.press()
	assert.Equal(t, []EventKind{EventJumpStarted, EventDoubleJumpStarted}, kinds(evs))
	assert.Equal(t, 2, r.ctrl.State().JumpsUsed)
	assert.Equal(t, 1, r.shaker.shakes)

	evs = r.press()
	assert.Zero(t, count(evs, EventJumpStarted))
	assert.Equal(t, 2, r.ctrl.State().JumpsUsed)
}

// A press while rising with coyote time still left must take the direct
// double jump, not a second fresh jump.
func TestDoubleJumpWinsOverCoyoteWhileRising(t *testing.T) {
	r := newRig(t, DefaultStats(), standing(0, floorTop), ground())
	r.idle(3)
	r.press()
	r.idle(4)

	st := r.ctrl.State()
	require.True(t, st.Jumping)
	require.False(t, st.Grounded)
	require.Greater(t, st.CoyoteTimer, 0.0)

	evs := r.press()
	assert.Equal(t, []EventKind{EventJumpStarted, EventDoubleJumpStarted}, kinds(evs))
	assert.Equal(t, 2, r.ctrl.State().JumpsUsed)
	assert.Equal(t, 1, r.shaker.shakes)

	evs = r.press()
	assert.Zero(t, count(evs, EventJumpStarted))
	assert.Zero(t, count(evs, EventDoubleJumpStarted))
	assert.Equal(t, 2, r.ctrl.State().JumpsUsed)
}

func TestLandingResetsJumps(t *testing.T) {
	r := newRig(t, DefaultStats(), standing(0, floorTop), ground())
	r.idle(3)
	r.press()

	var landed []Event
	for range 200 {
		evs := r.idle(1)
		if count(evs, EventLanded) > 0 {
			landed = evs
			break
		}
	}
	require.NotNil(t, landed, "never landed")
	assert.Zero(t, count(landed, EventFellFromHeight))

	st := r.ctrl.State()
	assert.Zero(t, st.JumpsUsed)
	assert.False(t, st.Jumping)
	assert.False(t, st.Falling)
	assert.Equal(t, DefaultAmbientGravity, st.VerticalVelocity)
	assert.Equal(t, ModeGrounded, st.Mode())
}

func TestFellFromHeight(t *testing.T) {
	limit := 1.5 * DefaultStats().AdjustedJumpHeight()
	cases := []struct {
		name     string
		height   float64
		wantFell bool
	}{
		{"high", 20, true},
		{"low", 3, false},
		{"just under the limit", limit - 1e-6, false},
		{"just over the limit", limit + 1e-6, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newRig(t, DefaultStats(), standing(0, c.height), ground())

			var evs []Event
			for range 300 {
				evs = append(evs, r.idle(1)...)
				if count(evs, EventLanded) > 0 {
					break
				}
			}
			require.Equal(t, 1, count(evs, EventLanded))

			last := evs[len(evs)-1]
			assert.Equal(t, EventLanded, last.Kind)
			assert.InDelta(t, c.height, last.FallDistance, 1e-9)
			assert.InDelta(t, 1, last.Position.Y, 1e-9)

			if c.wantFell {
				fell := evs[len(evs)-2]
				assert.Equal(t, EventFellFromHeight, fell.Kind)
				assert.InDelta(t, c.height, fell.FallDistance, 1e-9)
				assert.Equal(t, 1, r.shaker.shakes)
			} else {
				assert.Zero(t, count(evs, EventFellFromHeight))
				assert.Zero(t, r.shaker.shakes)
			}
		})
	}
}

func wallRight() cp.BB {
	return cp.BB{L: 0.5, B: -100, R: 2.5, T: 100}
}

func TestWallSlideThenWallJump(t *testing.T) {
	r := newRig(t, DefaultStats(), cp.Vector{X: 0, Y: 50}, wallRight())

	evs := r.idle(1)
	require.Equal(t, []EventKind{EventWallSlideChanged}, kinds(evs))
	require.True(t, evs[0].Value)

	evs = r.idle(5)
	assert.Zero(t, count(evs, EventWallSlideChanged), "slide entry fires once")
	st := r.ctrl.State()
	assert.True(t, st.WallSliding)
	assert.Equal(t, ModeWallSliding, st.Mode())
	assert.InDelta(t, -r.ctrl.Stats().WallSlideSpeed, st.VerticalVelocity, 1e-9)
	assert.Zero(t, st.JumpsUsed)

	evs = r.press()
	require.Equal(t, []EventKind{EventWallSlideChanged, EventWallJumpStarted}, kinds(evs))
	assert.False(t, evs[0].Value)

	st = r.ctrl.State()
	assert.True(t, st.WallJumping)
	assert.True(t, st.UseWallJumpMoveStats)
	assert.False(t, st.WallSliding)
	assert.Equal(t, -20.0, st.HorizontalVelocity)
	assert.InDelta(t, r.ctrl.Stats().InitialWallJumpVelocity(), st.VerticalVelocity, 1e-9)
	assert.Equal(t, 1, st.JumpsUsed)
	stats := r.ctrl.Stats()
	assert.Empty(t, st.Violations(&stats))

	r.idle(10)
	assert.Less(t, r.world.pos.X, -1.0)
	assert.False(t, r.ctrl.State().TouchingWall)

	evs = r.press()
	assert.Equal(t, []EventKind{EventJumpStarted, EventDoubleJumpStarted}, kinds(evs))
	assert.Equal(t, 2, r.ctrl.State().JumpsUsed)
}

func TestLeavingWallSpendsJumpAndBuffersWallJump(t *testing.T) {
	r := newRig(t, DefaultStats(), cp.Vector{X: 0, Y: 50}, wallRight())
	r.idle(3)
	require.True(t, r.ctrl.State().WallSliding)

	r.world.pos.X = -5
	evs := r.idle(1)
	require.Equal(t, []EventKind{EventWallSlideChanged}, kinds(evs))
	st := r.ctrl.State()
	assert.True(t, st.WallSlideFalling)
	assert.Equal(t, 1, st.JumpsUsed)
	assert.Greater(t, st.WallJumpPostBufferTimer, 0.0)

	evs = r.press()
	assert.Equal(t, []EventKind{EventWallJumpStarted}, kinds(evs))
	assert.Equal(t, -20.0, r.ctrl.State().HorizontalVelocity)
}

// wallJumpRig slides down wallRight and wall jumps off it.
func wallJumpRig(t *testing.T, dt float64) *rig {
	t.Helper()
	r := newRig(t, DefaultStats(), cp.Vector{X: 0, Y: 50}, wallRight())
	r.dt = dt
	r.idle(3)
	require.True(t, r.ctrl.State().WallSliding)
	evs := r.press()
	require.Equal(t, 1, count(evs, EventWallJumpStarted))
	return r
}

func TestWallJumpApexHang(t *testing.T) {
	// The wall-jump apex is measured against the raw launch height, a narrow
	// window that 0.003 s steps land in with a clear margin.
	r := wallJumpRig(t, 0.003)

	vys, past := r.holdJump(200)
	first := firstZero(vys)
	require.Greater(t, first, 0, "never reached the apex")
	assert.Greater(t, vys[first-1], 0.0)
	assert.False(t, past[first-1])

	hang := 0
	for vys[first+hang] == 0 {
		hang++
	}
	// 0.07 s of hang is 23 steps of 0.003 s.
	assert.Equal(t, 23, hang)
	assert.Equal(t, -0.01, vys[first+hang])
	assert.Less(t, vys[first+hang+1], -0.01)

	st := r.ctrl.State()
	assert.True(t, st.WallJumping)
	assert.True(t, st.PastWallJumpApex)
	assert.False(t, st.WallJumpFastFalling)
}

func TestWallJumpReleaseFastFalls(t *testing.T) {
	r := wallJumpRig(t, 0.02)
	r.holdJump(3)
	require.False(t, r.ctrl.State().TouchingWall)

	r.frame(Input{JumpReleased: true})
	st := r.ctrl.State()
	require.True(t, st.WallJumpFastFalling)
	release := st.WallJumpReleaseSpeed
	require.Greater(t, release, 0.0)
	assert.Equal(t, release, st.VerticalVelocity)

	// The rise eases to zero over the upwards-cancel window.
	var vys []float64
	for range 3 {
		r.idle(1)
		vys = append(vys, r.ctrl.State().VerticalVelocity)
	}
	assert.InDelta(t, release, vys[0], 1e-9)
	assert.InDelta(t, 0.6*release, vys[1], 1e-9)
	assert.InDelta(t, 0.2*release, vys[2], 1e-9)

	// Then gravity takes over and the wall jump turns into a fall.
	for range 20 {
		r.idle(1)
		if r.ctrl.State().WallJumpFalling {
			break
		}
	}
	st = r.ctrl.State()
	assert.True(t, st.WallJumpFalling)
	assert.Less(t, st.VerticalVelocity, 0.0)
	assert.Equal(t, ModeWallJumping, st.Mode())
}

// With one jump, sliding off a wall spends it; a press inside the coyote
// window that followed must not start a fresh jump.
func TestCoyoteJumpAfterWallDetachIsSpent(t *testing.T) {
	s := DefaultStats()
	s.MaxJumpCount = 1
	s.WallJumpPostBufferTime = 0
	ledge := cp.BB{L: -10, B: -2, R: -1, T: 0}
	r := newRig(t, s, standing(-1.5, 0), ledge, wallRight())
	r.idle(3)
	require.True(t, r.ctrl.State().Grounded)

	r.world.pos.X = 0
	r.idle(1)
	require.True(t, r.ctrl.State().WallSliding)

	r.world.pos.X = -0.2
	evs := r.idle(1)
	require.Equal(t, 1, count(evs, EventWallSlideChanged))

	st := r.ctrl.State()
	require.Greater(t, st.CoyoteTimer, 0.0)
	require.False(t, st.Jumping)
	require.Equal(t, 1, st.JumpsUsed)

	evs = r.press()
	assert.Zero(t, count(evs, EventJumpStarted))
	assert.Zero(t, count(evs, EventWallJumpStarted))
	st = r.ctrl.State()
	assert.Equal(t, 1, st.JumpsUsed)
	assert.False(t, st.Jumping)
	stats := r.ctrl.Stats()
	assert.Empty(t, st.Violations(&stats))
}

func TestDashOutOfWallSlideRefundsJump(t *testing.T) {
	r := newRig(t, DefaultStats(), cp.Vector{X: 0, Y: 50}, wallRight())
	r.idle(3)

	r.world.pos.X = -5
	evs := r.frame(Input{DashPressed: true, DashHeld: true})
	assert.Equal(t, []EventKind{EventWallSlideChanged, EventDashStarted}, kinds(evs))

	st := r.ctrl.State()
	assert.Zero(t, st.JumpsUsed)
	assert.True(t, st.Dashing)
	assert.True(t, st.AirDashing)
	assert.False(t, st.WallSlideFalling)
	assert.Equal(t, 1, st.DashesUsed)
}

func TestHeadBumpCutsJumpOnce(t *testing.T) {
	ceiling := cp.BB{L: -50, B: 4, R: 50, T: 6}
	r := newRig(t, DefaultStats(), standing(0, floorTop), ground(), ceiling)
	r.idle(3)
	r.press()

	var evs []Event
	for range 200 {
		evs = append(evs, r.idle(1)...)
		if count(evs, EventLanded) > 0 {
			break
		}
	}

	var bumps []bool
	for _, e := range evs {
		if e.Kind == EventHeadBumped {
			bumps = append(bumps, e.Value)
		}
	}
	assert.Equal(t, []bool{true, false}, bumps)
	assert.Equal(t, []cp.Vector{{X: 0.12, Y: 0}}, r.shaker.impulse)
	assert.Equal(t, 1, r.shaker.shakes)
	assert.Equal(t, 1, count(evs, EventLanded))
	assert.LessOrEqual(t, r.world.Bounds().T, 4.0)
}

func TestCameraFallFeedback(t *testing.T) {
	r := newRig(t, DefaultStats(), cp.Vector{X: 0, Y: 0})
	r.idle(150)

	assert.Equal(t, []bool{true}, r.camera.yDamping)
	require.Len(t, r.camera.lookAhead, 150)
	assert.False(t, r.camera.lookAhead[0])
	assert.False(t, r.camera.lookAhead[50])
	assert.True(t, r.camera.lookAhead[149])
}

func TestCameraFallModeDisabled(t *testing.T) {
	s := DefaultStats()
	s.EnableFallMode = false
	r := newRig(t, s, cp.Vector{X: 0, Y: 0})
	r.idle(150)

	assert.NotContains(t, r.camera.lookAhead, true)
	assert.Equal(t, []bool{true}, r.camera.yDamping)
}

func TestCameraRelaxesDampingAfterLanding(t *testing.T) {
	r := newRig(t, DefaultStats(), standing(0, 20), ground())
	r.idle(120)

	assert.Equal(t, []bool{true, false}, r.camera.yDamping)
}

func TestFallSpeedIsClamped(t *testing.T) {
	r := newRig(t, DefaultStats(), cp.Vector{X: 0, Y: 0})
	r.idle(60)
	assert.Equal(t, -25.0, r.world.vel.Y)
	assert.Equal(t, -25.0, r.ctrl.State().VerticalVelocity)
}

func TestFixedUpdateWritesVelocityOnce(t *testing.T) {
	r := newRig(t, DefaultStats(), standing(0, floorTop), ground())
	for i := 1; i <= 5; i++ {
		r.press()
		assert.Equal(t, i, r.world.writes)
	}
}

func TestNonPositiveDtIsIgnored(t *testing.T) {
	r := newRig(t, DefaultStats(), standing(0, floorTop), ground())
	before := r.ctrl.State()
	r.ctrl.Update(0, Input{JumpPressed: true})
	r.ctrl.FixedUpdate(-1)
	r.ctrl.Update(math.NaN(), Input{DashPressed: true})
	assert.Equal(t, before, r.ctrl.State())
	assert.Zero(t, r.world.writes)
}

func TestNilCollaborators(t *testing.T) {
	c := New(Options{Stats: DefaultStats()})
	assert.NotPanics(t, func() {
		for range 30 {
			c.FixedUpdate(0.02)
			c.Update(0.02, Input{JumpPressed: true, DashPressed: true, Move: cp.Vector{X: 1}})
		}
	})
	var nilCtrl *Controller
	assert.NotPanics(t, func() {
		nilCtrl.Update(0.02, Input{})
		nilCtrl.FixedUpdate(0.02)
	})
}

func TestSetStatsMidMotion(t *testing.T) {
	r := newRig(t, DefaultStats(), cp.Vector{X: 0, Y: 50})
	r.frame(Input{DashPressed: true})
	r.press()
	r.press()
	require.True(t, r.ctrl.State().Dashing)
	require.Equal(t, 2, r.ctrl.State().JumpsUsed)

	s := DefaultStats()
	s.EnableDash = false
	s.MaxJumpCount = 1
	r.ctrl.SetStats(s)

	st := r.ctrl.State()
	assert.False(t, st.Dashing)
	assert.False(t, st.AirDashing)
	assert.Equal(t, 1, st.JumpsUsed)
	assert.Empty(t, st.Violations(&s))
}

func TestAmbientGravityOverride(t *testing.T) {
	w := newBoxWorld(standing(0, 2), ground())
	c := New(Options{Stats: DefaultStats(), Body: w, Caster: w, AmbientGravity: -3})
	for range 60 {
		c.FixedUpdate(0.02)
		w.step(0.02)
		c.Update(0.02, Input{})
	}
	assert.Equal(t, -3.0, c.State().VerticalVelocity)
}

func TestRandomInputKeepsInvariants(t *testing.T) {
	arena := []cp.BB{
		{L: -20, B: -2, R: 20, T: 0},
		{L: -20, B: 12, R: 20, T: 14},
		{L: -22, B: -2, R: -20, T: 14},
		{L: 20, B: -2, R: 22, T: 14},
		{L: -5, B: 4, R: 5, T: 5},
	}
	r := newRig(t, DefaultStats(), standing(0, 0), arena...)
	stats := r.ctrl.Stats()
	rng := rand.New(rand.NewSource(7))

	var tr InputTracker
	var move cp.Vector
	jump, dash := false, false
	for i := range 4000 {
		if rng.Intn(8) == 0 {
			move = cp.Vector{X: float64(rng.Intn(3) - 1), Y: float64(rng.Intn(3) - 1)}
		}
		if rng.Intn(6) == 0 {
			jump = !jump
		}
		dash = rng.Intn(20) == 0

		r.frame(tr.Sample(move, jump, dash))

		st := r.ctrl.State()
		require.Empty(t, st.Violations(&stats), "frame %d", i)
		require.False(t, math.IsNaN(st.VerticalVelocity) || math.IsInf(st.VerticalVelocity, 0), "frame %d", i)
		require.False(t, math.IsNaN(st.HorizontalVelocity) || math.IsInf(st.HorizontalVelocity, 0), "frame %d", i)
		require.GreaterOrEqual(t, r.world.vel.Y, -maxRiseSpeed-1e-9, "frame %d", i)
		require.LessOrEqual(t, r.world.vel.Y, maxRiseSpeed+1e-9, "frame %d", i)
	}
}
