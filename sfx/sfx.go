package sfx

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Tiqsif/platformer-template/fx"
	"github.com/Tiqsif/platformer-template/movement"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const SampleRate = 44100

// Clip names.
const (
	Jump       = "jump"
	DoubleJump = "double_jump"
	WallJump   = "wall_jump"
	Land       = "land"
	HeadBump   = "head_bump"
	Dash       = "dash"
	Footstep   = "footstep"
	Blink      = "blink"
)

// Player is the part of an ebiten audio player the mixer drives.
type Player interface {
	IsPlaying() bool
	Rewind() error
	Play()
	Pause()
	SetVolume(volume float64)
}

// Mixer plays one player per clip name. It implements movement.Observer.
type Mixer struct {
	players map[string]Player
	muted   bool
}

func NewMixer(players map[string]Player) *Mixer {
	if players == nil {
		players = map[string]Player{}
	}
	return &Mixer{players: players}
}

// SetMuted silences every later request. Clips already playing finish.
func (m *Mixer) SetMuted(muted bool) {
	m.muted = muted
}

func (m *Mixer) Muted() bool {
	return m.muted
}

// Play starts a clip unless it is already playing.
func (m *Mixer) Play(name string, volume float64) {
	p := m.player(name)
	if p == nil || p.IsPlaying() {
		return
	}
	start(name, p, volume)
}

// KillAndPlay restarts a clip from the beginning.
func (m *Mixer) KillAndPlay(name string, volume float64) {
	p := m.player(name)
	if p == nil {
		return
	}
	if p.IsPlaying() {
		p.Pause()
	}
	start(name, p, volume)
}

func (m *Mixer) player(name string) Player {
	if m == nil || m.muted {
		return nil
	}
	return m.players[name]
}

func start(name string, p Player, volume float64) {
	p.SetVolume(volume)
	if err := p.Rewind(); err != nil {
		log.Printf("sfx: rewind %s: %v", name, err)
		return
	}
	p.Play()
}

func (m *Mixer) OnEvent(e movement.Event) {
	switch e.Kind {
	case movement.EventFirstJumpStarted:
		m.Play(Jump, 1)
	case movement.EventDoubleJumpStarted:
		m.Play(DoubleJump, 1)
	case movement.EventWallJumpStarted:
		m.KillAndPlay(WallJump, 0.8)
	case movement.EventFellFromHeight:
		m.Play(Land, 1)
	case movement.EventHeadBumped:
		if e.Value {
			m.Play(HeadBump, 1)
		}
	case movement.EventDashStarted:
		m.KillAndPlay(Dash, 1)
	}
}

// Cue plays the animator's footstep and blink sounds.
func (m *Mixer) Cue(c fx.Cue) {
	switch c {
	case fx.CueFootstep:
		m.KillAndPlay(Footstep, 0.15)
	case fx.CueBlink:
		m.KillAndPlay(Blink, 0.15)
	}
}

// LoadPlayers builds a player for every known clip. A <name>.wav file in dir
// replaces the generated tone; an empty dir uses tones only.
func LoadPlayers(ctx *audio.Context, dir string) (map[string]Player, error) {
	players := make(map[string]Player, len(Tones))
	for name, tone := range Tones {
		if dir != "" {
			p, err := loadWAV(ctx, filepath.Join(dir, name+".wav"))
			if err == nil {
				players[name] = p
				continue
			}
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
		players[name] = ctx.NewPlayerFromBytes(tone.PCM(ctx.SampleRate()))
	}
	return players, nil
}

func loadWAV(ctx *audio.Context, path string) (*audio.Player, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("sfx: decode wav %q: %w", path, err)
	}
	p, err := ctx.NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("sfx: player %q: %w", path, err)
	}
	return p, nil
}
