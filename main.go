package main

import (
	"flag"
	"log"

	"github.com/Tiqsif/platformer-template/prefabs"
	"github.com/Tiqsif/platformer-template/sim"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var opts Options
	flag.StringVar(&opts.Level, "level", "intro.tmx", "level name in levels/ or a path to a .tmx/.json file")
	flag.StringVar(&opts.Stats, "stats", prefabs.PlayerMovementFile, "player prefab in prefabs/")
	flag.StringVar(&opts.Backend, "backend", sim.BackendChipmunk, "physics backend: cp or grid")
	flag.StringVar(&opts.SFXDir, "sfx", "", "directory with <clip>.wav files replacing the generated tones")
	flag.BoolVar(&opts.Debug, "debug", false, "enable debug drawing")
	flag.BoolVar(&opts.Muted, "mute", false, "start with sound muted")
	flag.BoolVar(&opts.Watch, "watch", false, "reload prefabs and levels when they change on disk")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("platformer")

	game, err := NewGame(opts)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
