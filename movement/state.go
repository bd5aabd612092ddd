package movement

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// MotionState is the full per-character movement state. Controller.State
// returns it by value.
type MotionState struct {
	HorizontalVelocity float64
	VerticalVelocity   float64
	FacingRight        bool

	Grounded     bool
	HeadBumped   bool
	TouchingWall bool

	Jumping              bool
	FastFalling          bool
	Falling              bool
	PastApexThreshold    bool
	JumpReleasedInBuffer bool
	FastFallTime         float64
	FastFallReleaseSpeed float64
	TimePastApex         float64
	JumpsUsed            int

	JumpBufferTimer float64
	CoyoteTimer     float64

	WallSliding      bool
	WallSlideFalling bool

	WallJumping             bool
	UseWallJumpMoveStats    bool
	WallJumpFastFalling     bool
	WallJumpFalling         bool
	PastWallJumpApex        bool
	WallJumpTime            float64
	WallJumpFastFallTime    float64
	WallJumpReleaseSpeed    float64
	TimePastWallJumpApex    float64
	WallJumpPostBufferTimer float64
	LastWallHit             Hit
	HasLastWallHit          bool

	Dashing                  bool
	AirDashing               bool
	DashFastFalling          bool
	DashDirection            cp.Vector
	DashTimer                float64
	DashOnGroundTimer        float64
	DashFastFallTime         float64
	DashFastFallReleaseSpeed float64
	DashesUsed               int

	FallingTimer float64
	FallHeight   float64
}

// Mode is the primary motion mode derived from the flags.
type Mode uint8

const (
	ModeGrounded Mode = iota
	ModeJumping
	ModeFalling
	ModeWallSliding
	ModeWallJumping
	ModeDashing
	ModeDashFastFalling
	ModeAirborne
)

func (m Mode) String() string {
	switch m {
	case ModeGrounded:
		return "grounded"
	case ModeJumping:
		return "jumping"
	case ModeFalling:
		return "falling"
	case ModeWallSliding:
		return "wall-sliding"
	case ModeWallJumping:
		return "wall-jumping"
	case ModeDashing:
		return "dashing"
	case ModeDashFastFalling:
		return "dash-fast-falling"
	default:
		return "airborne"
	}
}

// Mode picks the dominant mode; dash wins over everything, then wall
// contact, then vertical motion.
func (s MotionState) Mode() Mode {
	switch {
	case s.Dashing:
		return ModeDashing
	case s.WallSliding:
		return ModeWallSliding
	case s.WallJumping:
		return ModeWallJumping
	case s.Jumping:
		return ModeJumping
	case s.DashFastFalling:
		return ModeDashFastFalling
	case s.Falling || s.WallSlideFalling || s.WallJumpFalling:
		return ModeFalling
	case s.Grounded:
		return ModeGrounded
	default:
		return ModeAirborne
	}
}

// Violations lists flag combinations that must never hold after a frame
// update.
func (s MotionState) Violations(stats *Stats) []string {
	var out []string
	if s.WallSliding && s.Dashing {
		out = append(out, "wall-sliding while dashing")
	}
	if s.WallSliding && s.WallJumping {
		out = append(out, "wall-sliding while wall-jumping")
	}
	if s.AirDashing && !s.Dashing {
		out = append(out, "air-dashing flag without dash")
	}
	if s.JumpsUsed < 0 {
		out = append(out, fmt.Sprintf("negative jumps used %d", s.JumpsUsed))
	}
	if stats != nil && s.JumpsUsed > stats.MaxJumpCount {
		out = append(out, fmt.Sprintf("jumps used %d exceeds max %d", s.JumpsUsed, stats.MaxJumpCount))
	}
	if s.DashesUsed < 0 {
		out = append(out, fmt.Sprintf("negative dashes used %d", s.DashesUsed))
	}
	return out
}
