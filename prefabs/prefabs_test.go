package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tiqsif/platformer-template/camera"
	"github.com/Tiqsif/platformer-template/movement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useDir(t *testing.T, dir string) {
	t.Helper()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })
}

func TestEmbeddedPlayerSpecMatchesDefaults(t *testing.T) {
	useDir(t, t.TempDir())

	spec, err := LoadPlayerSpec(PlayerMovementFile)
	require.NoError(t, err)
	assert.Equal(t, "player", spec.Name)
	assert.Equal(t, BodySpec{Width: 1, Height: 2}, spec.Body)
	assert.Equal(t, movement.DefaultStats(), spec.Stats)
	assert.InDelta(t, -79.05, spec.Stats.Gravity(), 1e-9)
}

func TestDiskSpecOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	yaml := "stats:\n  jump_height: 3\n  max_jump_count: 9\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, PlayerMovementFile), []byte(yaml), 0o644))

	stats, err := LoadStats("prefabs/" + PlayerMovementFile)
	require.NoError(t, err)
	assert.Equal(t, 3.0, stats.JumpHeight)
	assert.Equal(t, 5, stats.MaxJumpCount, "clamped into range")
	assert.Equal(t, 15.0, stats.MaxWalkSpeed, "absent fields keep defaults")
	assert.InDelta(t, -2*3*1.054/(0.4*0.4), stats.Gravity(), 1e-9)

	_, ok := ModTime(PlayerMovementFile)
	assert.True(t, ok)
}

func TestMissingAndBrokenSpecs(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)

	_, err := Load("missing.yaml")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = LoadPlayerSpec("missing.yaml")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("stats: [1, 2"), 0o644))
	_, err = LoadPlayerSpec("broken.yaml")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	_, ok := ModTime("missing.yaml")
	assert.False(t, ok)
}

func TestMarshalStatsReloads(t *testing.T) {
	stats := movement.DefaultStats()
	stats.DashSpeed = 55
	stats.EnableFallMode = false
	stats.Recalculate()

	data, err := MarshalStats(stats)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dash_speed: 55")

	spec, err := ParsePlayerSpec(data)
	require.NoError(t, err)
	assert.Equal(t, stats, spec.Stats)
}

func TestCameraSpec(t *testing.T) {
	useDir(t, t.TempDir())

	spec, err := LoadCameraSpec(CameraFile)
	require.NoError(t, err)
	assert.Equal(t, camera.DefaultSettings(), spec.Settings)
}

func TestScripts(t *testing.T) {
	useDir(t, t.TempDir())

	assert.ElementsMatch(t,
		[]string{"dash_tour.tengo", "idle.tengo", "run_and_jump.tengo", "wall_climb.tengo"},
		Scripts())

	for _, name := range []string{"run_and_jump", "scripts/run_and_jump.tengo", "prefabs/scripts/run_and_jump.tengo"} {
		src, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(src), "sample")
	}

	_, err := LoadScript("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		kind ChangeKind
		ok   bool
	}{
		{path: "prefabs/player_movement.yaml", kind: ChangeSpec, ok: true},
		{path: "x.YML", kind: ChangeSpec, ok: true},
		{path: "scripts/a.tengo", kind: ChangeScript, ok: true},
		{path: "levels/intro.tmx", kind: ChangeLevel, ok: true},
		{path: "notes.txt"},
	}
	for _, tt := range tests {
		kind, ok := classify(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.kind, kind, tt.path)
	}
}

func TestWatcherReportsSpecEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "camera.yaml"), []byte("name: cam\n"), 0o644))

	select {
	case c := <-w.Events:
		assert.Equal(t, ChangeSpec, c.Kind)
		assert.Equal(t, "camera.yaml", filepath.Base(c.Path))
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
