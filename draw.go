package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/Tiqsif/platformer-template/camera"
	"github.com/Tiqsif/platformer-template/fx"
	"github.com/Tiqsif/platformer-template/levels"
	"github.com/Tiqsif/platformer-template/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"
)

var pixel = func() *ebiten.Image {
	img := ebiten.NewImage(1, 1)
	img.Fill(color.White)
	return img
}()

var particleColors = map[fx.ParticleKind]color.RGBA{
	fx.ParticleJump:       colornames.Lightgray,
	fx.ParticleLand:       colornames.Tan,
	fx.ParticleDoubleJump: colornames.Skyblue,
	fx.ParticleDash:       colornames.Orange,
}

func drawLevel(screen *ebiten.Image, lvl *levels.Level, cam *camera.Camera) {
	if lvl == nil {
		return
	}
	zoom := float32(cam.Zoom())
	for _, s := range lvl.Solids {
		x, y := cam.WorldToScreen(cp.Vector{X: s.Box.L, Y: s.Box.T})
		w := float32(s.Box.R-s.Box.L) * zoom
		h := float32(s.Box.T-s.Box.B) * zoom
		vector.FillRect(screen, float32(x), float32(y), w, h, colornames.Darkslategray, false)
	}
}

// drawPlayer draws the body box squashed and tilted about its feet, with
// two eyes on the facing side.
func drawPlayer(screen *ebiten.Image, w *sim.World, size cp.Vector) {
	cam := w.Camera
	pose := w.Animator.Pose()
	facing := 1.0
	if !w.Controller.State().FacingRight {
		facing = -1
	}

	feet := w.Body.Position().Add(cp.Vector{X: 0, Y: -size.Y / 2}).Add(pose.Offset)
	sx, sy := cam.WorldToScreen(feet)
	zoom := cam.Zoom()

	body := func(geo *ebiten.GeoM) {
		geo.Scale(pose.Scale.X*zoom, pose.Scale.Y*zoom)
		geo.Rotate(pose.Tilt * math.Pi / 180)
		geo.Translate(sx, sy)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-0.5, -1)
	op.GeoM.Scale(size.X, size.Y)
	body(&op.GeoM)
	op.ColorScale.ScaleWithColor(colornames.Coral)
	screen.DrawImage(pixel, op)

	eyeW, eyeH := size.X*0.14, size.Y*0.18*pose.EyeScale
	for _, dx := range []float64{-0.16, 0.2} {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-0.5, -0.5)
		op.GeoM.Scale(eyeW, eyeH)
		op.GeoM.Translate((0.1+dx)*facing*size.X, -0.72*size.Y)
		body(&op.GeoM)
		op.ColorScale.ScaleWithColor(colornames.Black)
		screen.DrawImage(pixel, op)
	}
}

func drawParticles(screen *ebiten.Image, e *fx.Emitter, cam *camera.Camera) {
	r := float32(0.08 * cam.Zoom())
	for _, p := range e.Particles() {
		x, y := cam.WorldToScreen(p.Pos)
		base := particleColors[p.Kind]
		c := color.NRGBA{R: base.R, G: base.G, B: base.B, A: uint8(255 * p.Alpha())}
		vector.DrawFilledCircle(screen, float32(x), float32(y), r, c, true)
	}
}

func drawHUD(screen *ebiten.Image, g *Game) {
	w := g.runner.World()
	st := w.Controller.State()
	pos := w.Body.Position()
	vel := w.Body.Velocity()
	msg := fmt.Sprintf("FPS: %.1f  frame %d\n", ebiten.ActualFPS(), w.Frame)
	msg += fmt.Sprintf("mode %s  pos (%.2f, %.2f)  vel (%.2f, %.2f)\n", w.Controller.Mode(), pos.X, pos.Y, vel.X, vel.Y)
	msg += fmt.Sprintf("grounded %t  jumps %d/%d  wall %t  dashes %d  eyes %s\n",
		st.Grounded, st.JumpsUsed, w.Controller.Stats().MaxJumpCount, st.WallSliding, st.DashesUsed, w.Animator.EyeState())
	msg += "F1 debug  F5 copy stats  F6 save stats  F7 reload  M mute  R respawn  P pause  F12 quit"
	if g.status != "" {
		msg += "\n" + g.status
	}
	ebitenutil.DebugPrint(screen, msg)
}

func drawProbes(screen *ebiten.Image, w *sim.World) {
	probe := w.Controller.LastProbe()
	drawBox(screen, w.Camera, w.Body.Bounds(), colornames.Lime)
	drawBox(screen, w.Camera, w.Body.FeetBounds(), colornames.Yellow)
	for _, bb := range []cp.BB{probe.GroundBox, probe.HeadBox, probe.WallBox} {
		drawBox(screen, w.Camera, bb, colornames.Gray)
	}
	if probe.Grounded {
		drawHit(screen, w.Camera, probe.GroundHit.Point, colornames.Yellow)
	}
	if probe.TouchingWall {
		drawHit(screen, w.Camera, probe.WallHit.Point, colornames.Red)
	}
	if probe.HeadBumped {
		drawHit(screen, w.Camera, probe.HeadHit.Point, colornames.Magenta)
	}
}

func drawHit(screen *ebiten.Image, cam *camera.Camera, p cp.Vector, c color.Color) {
	x, y := cam.WorldToScreen(p)
	vector.DrawFilledCircle(screen, float32(x), float32(y), 3, c, false)
}
