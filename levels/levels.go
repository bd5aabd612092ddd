// Package levels loads level geometry into world units: one tile is one
// unit, y grows up and the bottom-left map corner is the origin.
package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/lafriks/go-tiled"
)

// ErrNoSpawn is returned for a level without a player spawn point.
var ErrNoSpawn = errors.New("levels: no player spawn")

//go:embed *.tmx *.json
var LevelsFS embed.FS

const (
	solidsName = "solids"
	spawnGroup = "spawn"
	spawnType  = "player_spawn"
)

type Solid struct {
	Box   cp.BB
	Layer uint
}

type Level struct {
	Name   string
	Width  int
	Height int
	Solids []Solid
	// Spawn is the point under the player's feet.
	Spawn cp.Vector
}

// SolidAdder receives level geometry; physics backends implement it.
type SolidAdder interface {
	AddSolid(bb cp.BB, layer uint)
}

// AddTo adds every solid to dst.
func (l *Level) AddTo(dst SolidAdder) {
	for _, s := range l.Solids {
		dst.AddSolid(s.Box, s.Layer)
	}
}

// Names lists the embedded levels.
func Names() []string {
	var names []string
	for _, pattern := range []string{"*.tmx", "*.json"} {
		matches, _ := fs.Glob(LevelsFS, pattern)
		names = append(names, matches...)
	}
	sort.Strings(names)
	return names
}

// Load reads an embedded level, or a file on disk when name is a path to an
// existing file.
func Load(name string) (*Level, error) {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return LoadFS(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}
	return LoadFS(LevelsFS, name)
}

// LoadFS reads a Tiled .tmx or editor .json level from fsys.
func LoadFS(fsys fs.FS, name string) (*Level, error) {
	var (
		lvl *Level
		err error
	)
	switch strings.ToLower(path.Ext(name)) {
	case ".tmx":
		lvl, err = loadTMX(fsys, name)
	case ".json":
		lvl, err = loadJSON(fsys, name)
	default:
		return nil, fmt.Errorf("levels: load %s: unknown format", name)
	}
	if err != nil {
		return nil, err
	}
	lvl.Name = strings.TrimSuffix(path.Base(name), path.Ext(name))
	return lvl, nil
}

func loadTMX(fsys fs.FS, name string) (*Level, error) {
	m, err := tiled.LoadFile(name, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("levels: load TMX %s: %w", name, err)
	}
	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		return nil, fmt.Errorf("levels: load TMX %s: bad tile size %dx%d", name, m.TileWidth, m.TileHeight)
	}

	lvl := &Level{Width: m.Width, Height: m.Height}
	for _, layer := range m.Layers {
		if layer.Name != solidsName {
			continue
		}
		grid := make([]bool, m.Width*m.Height)
		for i, tile := range layer.Tiles {
			if i < len(grid) && !tile.IsNil() {
				grid[i] = true
			}
		}
		lvl.Solids = append(lvl.Solids, tileRuns(grid, m.Width, m.Height)...)
	}

	tw, th := float64(m.TileWidth), float64(m.TileHeight)
	h := float64(m.Height)
	spawned := false
	for _, og := range m.ObjectGroups {
		switch og.Name {
		case solidsName:
			for _, o := range og.Objects {
				layer := uint(max(o.Properties.GetInt("layer"), 0))
				if layer == 0 {
					layer = 1
				}
				lvl.Solids = append(lvl.Solids, Solid{
					Box: cp.BB{
						L: o.X / tw,
						B: h - (o.Y+o.Height)/th,
						R: (o.X + o.Width) / tw,
						T: h - o.Y/th,
					},
					Layer: layer,
				})
			}
		case spawnGroup:
			if len(og.Objects) > 0 && !spawned {
				o := og.Objects[0]
				lvl.Spawn = cp.Vector{X: o.X / tw, Y: h - o.Y/th}
				spawned = true
			}
		}
	}
	if !spawned {
		return nil, fmt.Errorf("levels: %s: %w", name, ErrNoSpawn)
	}
	return lvl, nil
}

// jsonLevel is the editor's tile format: row-major layers with per-layer
// physics flags and entities in tile coordinates.
type jsonLevel struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []layerMeta `json:"layer_meta,omitempty"`
	Entities  []entity    `json:"entities,omitempty"`
}

type layerMeta struct {
	Physics bool `json:"physics"`
}

type entity struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func loadJSON(fsys fs.FS, name string) (*Level, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	var raw jsonLevel
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if raw.Width <= 0 || raw.Height <= 0 {
		return nil, fmt.Errorf("levels: %s: bad size %dx%d", name, raw.Width, raw.Height)
	}

	lvl := &Level{Width: raw.Width, Height: raw.Height}
	grid := make([]bool, raw.Width*raw.Height)
	for i, layer := range raw.Layers {
		// Levels without metadata treat the first layer as physics.
		physics := i == 0
		if i < len(raw.LayerMeta) {
			physics = raw.LayerMeta[i].Physics
		}
		if !physics {
			continue
		}
		for j, v := range layer {
			if j < len(grid) && v != 0 {
				grid[j] = true
			}
		}
	}
	lvl.Solids = tileRuns(grid, raw.Width, raw.Height)

	for _, e := range raw.Entities {
		if e.Type != spawnType {
			continue
		}
		lvl.Spawn = cp.Vector{X: float64(e.X) + 0.5, Y: float64(raw.Height - e.Y - 1)}
		return lvl, nil
	}
	return nil, fmt.Errorf("levels: %s: %w", name, ErrNoSpawn)
}

// tileRuns merges each row's consecutive solid tiles into one box.
func tileRuns(grid []bool, w, h int) []Solid {
	var out []Solid
	for row := range h {
		top := float64(h - row)
		for col := 0; col < w; {
			if !grid[row*w+col] {
				col++
				continue
			}
			start := col
			for col < w && grid[row*w+col] {
				col++
			}
			out = append(out, Solid{
				Box:   cp.BB{L: float64(start), B: top - 1, R: float64(col), T: top},
				Layer: 1,
			})
		}
	}
	return out
}
