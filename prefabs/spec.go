package prefabs

import (
	"fmt"
	"log"

	"github.com/Tiqsif/platformer-template/camera"
	"github.com/Tiqsif/platformer-template/fx"
	"github.com/Tiqsif/platformer-template/movement"
	"gopkg.in/yaml.v3"
)

const (
	PlayerMovementFile = "player_movement.yaml"
	CameraFile         = "camera.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var spec T
	err := loadInto(filename, &spec)
	return spec, err
}

// loadInto decodes filename over the values already in out, so fields the
// file leaves out keep them.
func loadInto[T any](filename string, out *T) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

type BodySpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PlayerSpec struct {
	Name      string              `yaml:"name"`
	Body      BodySpec            `yaml:"body"`
	Stats     movement.Stats      `yaml:"stats"`
	Animation fx.AnimatorSettings `yaml:"animation"`
}

func defaultPlayerSpec() PlayerSpec {
	return PlayerSpec{
		Name:      "player",
		Body:      BodySpec{Width: 1, Height: 2},
		Stats:     movement.DefaultStats(),
		Animation: fx.DefaultAnimatorSettings(),
	}
}

// LoadPlayerSpec loads a player prefab. The stats are clamped into range and
// their derived values recomputed.
func LoadPlayerSpec(filename string) (*PlayerSpec, error) {
	spec := defaultPlayerSpec()
	if err := loadInto(filename, &spec); err != nil {
		return nil, err
	}
	spec.normalize(filename)
	return &spec, nil
}

// ParsePlayerSpec is LoadPlayerSpec for bytes that did not come from a file.
func ParsePlayerSpec(data []byte) (*PlayerSpec, error) {
	spec := defaultPlayerSpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal player spec: %w", err)
	}
	spec.normalize("player spec")
	return &spec, nil
}

func (s *PlayerSpec) normalize(source string) {
	if changed := s.Stats.Normalize(); len(changed) > 0 {
		log.Printf("prefabs: %s: clamped %v", source, changed)
	}
	if !(s.Body.Width > 0) {
		s.Body.Width = 1
	}
	if !(s.Body.Height > 0) {
		s.Body.Height = 2
	}
}

func LoadStats(filename string) (movement.Stats, error) {
	spec, err := LoadPlayerSpec(filename)
	if err != nil {
		return movement.Stats{}, err
	}
	return spec.Stats, nil
}

// MarshalStats renders stats as the "stats" section of a player spec.
func MarshalStats(s movement.Stats) ([]byte, error) {
	out, err := yaml.Marshal(struct {
		Stats movement.Stats `yaml:"stats"`
	}{Stats: s})
	if err != nil {
		return nil, fmt.Errorf("prefabs: marshal stats: %w", err)
	}
	return out, nil
}

type CameraSpec struct {
	Name     string          `yaml:"name"`
	Settings camera.Settings `yaml:"settings"`
}

func LoadCameraSpec(filename string) (*CameraSpec, error) {
	spec := CameraSpec{Name: "camera", Settings: camera.DefaultSettings()}
	if err := loadInto(filename, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}
