package main

import (
	"fmt"
	"log"

	"github.com/Tiqsif/platformer-template/levels"
	"github.com/Tiqsif/platformer-template/prefabs"
	"github.com/Tiqsif/platformer-template/sfx"
	"github.com/Tiqsif/platformer-template/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/jakecoffman/cp"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Options struct {
	Level   string
	Stats   string
	Backend string
	SFXDir  string
	Debug   bool
	Muted   bool
	Watch   bool
}

type Game struct {
	opts   Options
	runner *sim.Runner
	input  *Input
	mixer  *sfx.Mixer
	store  *Store
	watch  *prefabs.Watcher
	size   cp.Vector

	debug     bool
	paused    bool
	clipboard bool
	status    string
}

func NewGame(opts Options) (*Game, error) {
	g := &Game{
		opts:  opts,
		input: NewInput(),
		store: OpenStore(),
		debug: opts.Debug,
	}

	ctx := audio.NewContext(sfx.SampleRate)
	players, err := sfx.LoadPlayers(ctx, opts.SFXDir)
	if err != nil {
		return nil, err
	}
	g.mixer = sfx.NewMixer(players)
	g.mixer.SetMuted(opts.Muted)

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboard = true
	}

	if err := g.load(); err != nil {
		return nil, err
	}
	if stats, ok := g.store.LoadStats(); ok {
		g.runner.SetStats(stats)
		g.status = "loaded saved stats"
	}

	if opts.Watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, prefabs.Dir+"/scripts", "levels")
		if err != nil {
			log.Printf("watch disabled: %v", err)
		} else {
			g.watch = w
		}
	}
	return g, nil
}

// load builds a fresh runner from the level and prefab files.
func (g *Game) load() error {
	lvl, err := levels.Load(g.opts.Level)
	if err != nil {
		return err
	}
	player, err := prefabs.LoadPlayerSpec(g.opts.Stats)
	if err != nil {
		return err
	}
	cam, err := prefabs.LoadCameraSpec(prefabs.CameraFile)
	if err != nil {
		return err
	}

	r, err := sim.New(sim.Config{
		Level:   lvl,
		Player:  player,
		Camera:  cam.Settings,
		Backend: g.opts.Backend,
		FixedDT: sim.DefaultFixedDT,
		Seed:    1,
		ScreenW: baseWidth,
		ScreenH: baseHeight,
	})
	if err != nil {
		return err
	}
	r.Subscribe(g.mixer)
	r.World().Animator.Cues = g.mixer.Cue

	g.runner = r
	g.size = cp.Vector{X: player.Body.Width, Y: player.Body.Height}
	g.input.Reset()
	return nil
}

func (g *Game) Update() error {
	if hotkey(ebiten.KeyF12) {
		return ebiten.Termination
	}
	g.hotkeys()
	g.pollWatch()

	if g.paused {
		return nil
	}
	in := g.input.Poll()
	g.runner.Step(1/float64(ebiten.TPS()), in)
	return nil
}

func (g *Game) hotkeys() {
	switch {
	case hotkey(ebiten.KeyF1):
		g.debug = !g.debug
	case hotkey(ebiten.KeyP), hotkey(ebiten.KeyEscape):
		g.paused = !g.paused
		g.input.Reset()
	case hotkey(ebiten.KeyM):
		g.mixer.SetMuted(!g.mixer.Muted())
	case hotkey(ebiten.KeyR):
		g.runner.World().Respawn()
		g.input.Reset()
	case hotkey(ebiten.KeyF5):
		g.copyStats()
	case hotkey(ebiten.KeyF6):
		if err := g.store.SaveStats(g.runner.World().Controller.Stats()); err != nil {
			g.status = fmt.Sprintf("save failed: %v", err)
		} else {
			g.status = "stats saved"
		}
	case hotkey(ebiten.KeyF7):
		g.reloadStats()
	}
}

func (g *Game) copyStats() {
	if !g.clipboard {
		g.status = "clipboard unavailable"
		return
	}
	data, err := prefabs.MarshalStats(g.runner.World().Controller.Stats())
	if err != nil {
		g.status = err.Error()
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.status = "stats copied to clipboard"
}

func (g *Game) reloadStats() {
	stats, err := prefabs.LoadStats(g.opts.Stats)
	if err != nil {
		g.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	g.runner.SetStats(stats)
	g.status = "stats reloaded"
}

func (g *Game) pollWatch() {
	if g.watch == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watch.Events:
			if !ok {
				g.watch = nil
				return
			}
			g.applyChange(change)
		case err, ok := <-g.watch.Errors:
			if !ok {
				g.watch = nil
				return
			}
			log.Printf("watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	switch change.Kind {
	case prefabs.ChangeSpec:
		g.reloadStats()
	case prefabs.ChangeLevel:
		if err := g.load(); err != nil {
			g.status = fmt.Sprintf("level reload failed: %v", err)
			return
		}
		g.status = "level reloaded"
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	w := g.runner.World()
	drawLevel(screen, w.Level, w.Camera)
	drawParticles(screen, w.Particles, w.Camera)
	drawPlayer(screen, w, g.size)

	if g.debug {
		if space, ok := w.Physics.(interface{ Space() *cp.Space }); ok {
			drawSpace(screen, space.Space(), w.Camera)
		}
		drawProbes(screen, w)
	}
	drawHUD(screen, g)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

// Close stops the file watcher.
func (g *Game) Close() {
	if g.watch != nil {
		if err := g.watch.Close(); err != nil {
			log.Printf("watch: %v", err)
		}
	}
}
