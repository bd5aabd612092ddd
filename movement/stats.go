package movement

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Stats is the tunable movement profile. Raw fields are loaded from YAML;
// the derived gravity and launch velocities are recomputed by Recalculate
// and are never serialized.
type Stats struct {
	MoveThreshold float64 `yaml:"move_threshold"`

	MaxWalkSpeed             float64 `yaml:"max_walk_speed"`
	GroundAcceleration       float64 `yaml:"ground_acceleration"`
	GroundDeceleration       float64 `yaml:"ground_deceleration"`
	AirAcceleration          float64 `yaml:"air_acceleration"`
	AirDeceleration          float64 `yaml:"air_deceleration"`
	WallJumpMoveAcceleration float64 `yaml:"wall_jump_move_acceleration"`
	WallJumpMoveDeceleration float64 `yaml:"wall_jump_move_deceleration"`

	GroundLayer         uint    `yaml:"ground_layer"`
	GroundCheckDistance float64 `yaml:"ground_check_distance"`
	HeadCheckDistance   float64 `yaml:"head_check_distance"`
	HeadWidth           float64 `yaml:"head_width"`
	WallCheckDistance   float64 `yaml:"wall_check_distance"`
	WallCheckHeight     float64 `yaml:"wall_check_height"`

	JumpHeight                 float64 `yaml:"jump_height"`
	JumpHeightCompensation     float64 `yaml:"jump_height_compensation"`
	TimeToJumpApex             float64 `yaml:"time_to_jump_apex"`
	GravityOnReleaseMultiplier float64 `yaml:"gravity_on_release_multiplier"`
	MaxFallSpeed               float64 `yaml:"max_fall_speed"`
	MaxJumpCount               int     `yaml:"max_jump_count"`
	ResetJumpOnWallSlide       bool    `yaml:"reset_jump_on_wall_slide"`

	TimeForUpwardsCancel float64 `yaml:"time_for_upwards_cancel"`
	ApexThreshold        float64 `yaml:"apex_threshold"`
	ApexHangTime         float64 `yaml:"apex_hang_time"`
	JumpBufferTime       float64 `yaml:"jump_buffer_time"`
	CoyoteTime           float64 `yaml:"coyote_time"`

	WallSlideSpeed             float64 `yaml:"wall_slide_speed"`
	WallSlideDecelerationSpeed float64 `yaml:"wall_slide_deceleration_speed"`

	WallJumpDirection                  cp.Vector `yaml:"wall_jump_direction"`
	WallJumpPostBufferTime             float64   `yaml:"wall_jump_post_buffer_time"`
	WallJumpGravityOnReleaseMultiplier float64   `yaml:"wall_jump_gravity_on_release_multiplier"`

	EnableDash                     bool    `yaml:"enable_dash"`
	DashTime                       float64 `yaml:"dash_time"`
	DashSpeed                      float64 `yaml:"dash_speed"`
	TimeBtwDashesOnGround          float64 `yaml:"time_btw_dashes_on_ground"`
	ResetDashOnWallSlide           bool    `yaml:"reset_dash_on_wall_slide"`
	NumberOfDashes                 int     `yaml:"number_of_dashes"`
	DashDiagonallyBias             float64 `yaml:"dash_diagonally_bias"`
	DashGravityOnReleaseMultiplier float64 `yaml:"dash_gravity_on_release_multiplier"`
	DashTimeForUpwardsCancel       float64 `yaml:"dash_time_for_upwards_cancel"`

	EnableFallMode       bool    `yaml:"enable_fall_mode"`
	FallModeRequiredTime float64 `yaml:"fall_mode_required_time"`

	ShowDebug bool `yaml:"show_debug"`

	adjustedJumpHeight      float64
	gravity                 float64
	initialJumpVelocity     float64
	adjustedWallJumpHeight  float64
	wallJumpGravity         float64
	initialWallJumpVelocity float64
}

const minTimeToJumpApex = 0.01

// DefaultStats returns the stock movement profile with derived values
// already computed.
func DefaultStats() Stats {
	s := Stats{
		MoveThreshold: 0.25,

		MaxWalkSpeed:             15,
		GroundAcceleration:       5,
		GroundDeceleration:       5,
		AirAcceleration:          5,
		AirDeceleration:          5,
		WallJumpMoveAcceleration: 5,
		WallJumpMoveDeceleration: 5,

		GroundLayer:         1,
		GroundCheckDistance: 0.02,
		HeadCheckDistance:   0.02,
		HeadWidth:           1,
		WallCheckDistance:   0.125,
		WallCheckHeight:     0.8,

		JumpHeight:                 6,
		JumpHeightCompensation:     1.054,
		TimeToJumpApex:             0.4,
		GravityOnReleaseMultiplier: 2,
		MaxFallSpeed:               25,
		MaxJumpCount:               2,
		ResetJumpOnWallSlide:       true,

		TimeForUpwardsCancel: 0.05,
		ApexThreshold:        0.9,
		ApexHangTime:         0.07,
		JumpBufferTime:       0.1,
		CoyoteTime:           0.1,

		WallSlideSpeed:             5,
		WallSlideDecelerationSpeed: 50,

		WallJumpDirection:                  cp.Vector{X: -20, Y: 6.5},
		WallJumpPostBufferTime:             0.125,
		WallJumpGravityOnReleaseMultiplier: 1,

		EnableDash:                     true,
		DashTime:                       0.11,
		DashSpeed:                      40,
		TimeBtwDashesOnGround:          0.225,
		ResetDashOnWallSlide:           true,
		NumberOfDashes:                 2,
		DashDiagonallyBias:             0.4,
		DashGravityOnReleaseMultiplier: 1,
		DashTimeForUpwardsCancel:       0.027,

		EnableFallMode:       true,
		FallModeRequiredTime: 2,
	}
	s.Recalculate()
	return s
}

// Recalculate refreshes the derived jump values from the raw fields.
func (s *Stats) Recalculate() {
	apex := s.TimeToJumpApex
	if !(apex >= minTimeToJumpApex) {
		apex = minTimeToJumpApex
		s.TimeToJumpApex = apex
	}

	s.adjustedJumpHeight = s.JumpHeight * s.JumpHeightCompensation
	s.gravity = -(2 * s.adjustedJumpHeight) / (apex * apex)
	s.initialJumpVelocity = math.Abs(s.gravity) * apex

	s.adjustedWallJumpHeight = s.WallJumpDirection.Y * s.JumpHeightCompensation
	s.wallJumpGravity = -(2 * s.adjustedWallJumpHeight) / (apex * apex)
	s.initialWallJumpVelocity = math.Abs(s.wallJumpGravity) * apex
}

// Clamp forces every raw field into its declared range and returns the YAML
// names of the fields it had to change.
func (s *Stats) Clamp() []string {
	var changed []string
	f := func(name string, v *float64, lo, hi float64) {
		c := *v
		if math.IsNaN(c) {
			c = lo
		}
		c = math.Max(lo, math.Min(hi, c))
		if c != *v {
			*v = c
			changed = append(changed, name)
		}
	}
	i := func(name string, v *int, lo, hi int) {
		c := max(lo, min(hi, *v))
		if c != *v {
			*v = c
			changed = append(changed, name)
		}
	}

	f("move_threshold", &s.MoveThreshold, 0, 1)
	f("max_walk_speed", &s.MaxWalkSpeed, 1, 100)
	f("ground_acceleration", &s.GroundAcceleration, 0.25, 50)
	f("ground_deceleration", &s.GroundDeceleration, 0.25, 50)
	f("air_acceleration", &s.AirAcceleration, 0.25, 50)
	f("air_deceleration", &s.AirDeceleration, 0.25, 50)
	f("wall_jump_move_acceleration", &s.WallJumpMoveAcceleration, 0.25, 50)
	f("wall_jump_move_deceleration", &s.WallJumpMoveDeceleration, 0.25, 50)

	if s.GroundLayer == 0 {
		s.GroundLayer = 1
		changed = append(changed, "ground_layer")
	}
	f("ground_check_distance", &s.GroundCheckDistance, 0.001, 10)
	f("head_check_distance", &s.HeadCheckDistance, 0.001, 10)
	f("head_width", &s.HeadWidth, 0, 1)
	f("wall_check_distance", &s.WallCheckDistance, 0.001, 10)
	f("wall_check_height", &s.WallCheckHeight, 0.01, 2)

	f("jump_height", &s.JumpHeight, 0.01, 1000)
	f("jump_height_compensation", &s.JumpHeightCompensation, 1, 1.1)
	f("time_to_jump_apex", &s.TimeToJumpApex, minTimeToJumpApex, 10)
	f("gravity_on_release_multiplier", &s.GravityOnReleaseMultiplier, 0.01, 5)
	f("max_fall_speed", &s.MaxFallSpeed, 0.01, 1000)
	i("max_jump_count", &s.MaxJumpCount, 1, 5)

	f("time_for_upwards_cancel", &s.TimeForUpwardsCancel, 0.02, 0.3)
	f("apex_threshold", &s.ApexThreshold, 0.5, 1)
	f("apex_hang_time", &s.ApexHangTime, 0.01, 1)
	f("jump_buffer_time", &s.JumpBufferTime, 0, 1)
	f("coyote_time", &s.CoyoteTime, 0, 1)

	f("wall_slide_speed", &s.WallSlideSpeed, 0.01, 1000)
	f("wall_slide_deceleration_speed", &s.WallSlideDecelerationSpeed, 0.25, 50)
	f("wall_jump_direction.x", &s.WallJumpDirection.X, -1000, 1000)
	f("wall_jump_direction.y", &s.WallJumpDirection.Y, -1000, 1000)
	f("wall_jump_post_buffer_time", &s.WallJumpPostBufferTime, 0, 1)
	f("wall_jump_gravity_on_release_multiplier", &s.WallJumpGravityOnReleaseMultiplier, 0.01, 5)

	f("dash_time", &s.DashTime, 0, 1)
	f("dash_speed", &s.DashSpeed, 1, 200)
	f("time_btw_dashes_on_ground", &s.TimeBtwDashesOnGround, 0, 1)
	i("number_of_dashes", &s.NumberOfDashes, 0, 5)
	f("dash_diagonally_bias", &s.DashDiagonallyBias, 0, 0.5)
	f("dash_gravity_on_release_multiplier", &s.DashGravityOnReleaseMultiplier, 0.01, 5)
	f("dash_time_for_upwards_cancel", &s.DashTimeForUpwardsCancel, 0.02, 0.3)

	f("fall_mode_required_time", &s.FallModeRequiredTime, 0.1, 20)

	return changed
}

// Normalize clamps the raw fields and recomputes the derived values.
func (s *Stats) Normalize() []string {
	changed := s.Clamp()
	s.Recalculate()
	return changed
}

func (s Stats) AdjustedJumpHeight() float64      { return s.adjustedJumpHeight }
func (s Stats) Gravity() float64                 { return s.gravity }
func (s Stats) InitialJumpVelocity() float64     { return s.initialJumpVelocity }
func (s Stats) AdjustedWallJumpHeight() float64  { return s.adjustedWallJumpHeight }
func (s Stats) WallJumpGravity() float64         { return s.wallJumpGravity }
func (s Stats) InitialWallJumpVelocity() float64 { return s.initialWallJumpVelocity }

var diagonal = 1 / math.Sqrt2

// DashDirections is the neutral entry followed by the eight canonical dash
// directions, diagonals normalized.
var DashDirections = [9]cp.Vector{
	{X: 0, Y: 0},
	{X: 1, Y: 0},
	{X: diagonal, Y: diagonal},
	{X: 0, Y: 1},
	{X: -diagonal, Y: diagonal},
	{X: -1, Y: 0},
	{X: -diagonal, Y: -diagonal},
	{X: 0, Y: -1},
	{X: diagonal, Y: -diagonal},
}
