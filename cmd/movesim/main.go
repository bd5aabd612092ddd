// Command movesim runs the movement controller headless against a level
// with scripted input and prints every movement event.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/Tiqsif/platformer-template/camera"
	"github.com/Tiqsif/platformer-template/levels"
	"github.com/Tiqsif/platformer-template/movement"
	"github.com/Tiqsif/platformer-template/prefabs"
	"github.com/Tiqsif/platformer-template/script"
	"github.com/Tiqsif/platformer-template/sim"
)

type options struct {
	level   string
	stats   string
	script  string
	frames  int
	fps     float64
	fixed   float64
	backend string
	seed    int64
	quiet   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.level, "level", "intro.tmx", "level name in levels/ or a path to a .tmx/.json file")
	flag.StringVar(&opts.stats, "stats", prefabs.PlayerMovementFile, "player prefab in prefabs/")
	flag.StringVar(&opts.script, "script", "run_and_jump", "input script in prefabs/scripts/")
	flag.IntVar(&opts.frames, "frames", 600, "number of frames to simulate")
	flag.Float64Var(&opts.fps, "fps", 60, "rendered frame rate")
	flag.Float64Var(&opts.fixed, "fixed", sim.DefaultFixedDT, "fixed physics step in seconds")
	flag.StringVar(&opts.backend, "backend", sim.BackendChipmunk, "physics backend: cp or grid")
	flag.Int64Var(&opts.seed, "seed", 1, "seed for blink and particle randomness")
	flag.BoolVar(&opts.quiet, "q", false, "only print the summary")
	watch := flag.Bool("watch", false, "re-run whenever a prefab, script or level changes")
	flag.Parse()

	log.SetFlags(0)

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
	if !*watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := watchAndRerun(ctx, opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	if !(opts.fps > 0) {
		return fmt.Errorf("movesim: fps must be positive, got %v", opts.fps)
	}

	lvl, err := levels.Load(opts.level)
	if err != nil {
		return err
	}
	player, err := prefabs.LoadPlayerSpec(opts.stats)
	if err != nil {
		return err
	}
	cam := camera.DefaultSettings()
	if spec, err := prefabs.LoadCameraSpec(prefabs.CameraFile); err == nil {
		cam = spec.Settings
	} else {
		log.Printf("movesim: camera spec: %v, using defaults", err)
	}
	src, err := script.Load(opts.script)
	if err != nil {
		return err
	}

	r, err := sim.New(sim.Config{
		Level:   lvl,
		Player:  player,
		Camera:  cam,
		Backend: opts.backend,
		FixedDT: opts.fixed,
		Seed:    opts.seed,
		ScreenW: 1280,
		ScreenH: 720,
	})
	if err != nil {
		return err
	}

	dt := 1 / opts.fps
	counts := make(map[movement.EventKind]int)
	err = r.Run(src, opts.frames, dt, func(frame int, events []movement.Event) {
		for _, e := range events {
			counts[e.Kind]++
			if !opts.quiet {
				printEvent(frame, float64(frame)*dt, e)
			}
		}
	})
	if err != nil {
		return err
	}

	w := r.World()
	pos := w.Body.Position()
	log.Printf("%d frames (%.2fs) on %s: end at (%.2f, %.2f) mode %s", w.Frame, w.Time, lvl.Name, pos.X, pos.Y, w.Controller.Mode())
	for kind := movement.EventGroundedChanged; kind <= movement.EventDashStarted; kind++ {
		if n := counts[kind]; n > 0 {
			log.Printf("  %-20s %d", kind, n)
		}
	}
	return nil
}

func printEvent(frame int, t float64, e movement.Event) {
	line := fmt.Sprintf("%5d %7.3fs %-20s (%.2f, %.2f)", frame, t, e.Kind, e.Position.X, e.Position.Y)
	switch e.Kind {
	case movement.EventGroundedChanged, movement.EventHeadBumped, movement.EventWallSlideChanged:
		line += fmt.Sprintf(" %t", e.Value)
	case movement.EventFellFromHeight:
		line += fmt.Sprintf(" fell %.2f", e.FallDistance)
	}
	log.Print(line)
}

func watchAndRerun(ctx context.Context, opts options) error {
	w, err := prefabs.NewWatcher(prefabs.Dir, prefabs.Dir+"/scripts", "levels")
	if err != nil {
		return err
	}
	defer w.Close()

	log.Printf("movesim: watching %s and levels", prefabs.Dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("movesim: watch: %v", err)
		case change, ok := <-w.Events:
			if !ok {
				return nil
			}
			log.Printf("movesim: %s changed, re-running", change.Path)
			if err := run(opts); err != nil {
				log.Printf("movesim: %v", err)
			}
		}
	}
}
