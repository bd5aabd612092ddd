package sfx

import (
	"encoding/binary"
	"math"
)

// Tone is a synthesized sweep used when no recorded clip is available.
type Tone struct {
	From     float64 // Hz
	To       float64 // Hz
	Duration float64 // seconds
	Noise    bool
}

var Tones = map[string]Tone{
	Jump:       {From: 320, To: 640, Duration: 0.12},
	DoubleJump: {From: 480, To: 960, Duration: 0.14},
	WallJump:   {From: 260, To: 720, Duration: 0.12},
	Land:       {From: 140, To: 60, Duration: 0.1, Noise: true},
	HeadBump:   {From: 200, To: 90, Duration: 0.08},
	Dash:       {From: 900, To: 300, Duration: 0.16, Noise: true},
	Footstep:   {From: 110, To: 80, Duration: 0.04, Noise: true},
	Blink:      {From: 1400, To: 1800, Duration: 0.03},
}

// PCM renders the tone as 16-bit little-endian stereo at sampleRate.
func (t Tone) PCM(sampleRate int) []byte {
	n := int(t.Duration * float64(sampleRate))
	if n <= 0 {
		return nil
	}
	out := make([]byte, n*4)
	phase := 0.0
	seed := uint32(0x9e3779b9)
	for i := range n {
		f := float64(i) / float64(n)
		freq := t.From + (t.To-t.From)*f
		phase += 2 * math.Pi * freq / float64(sampleRate)

		v := math.Sin(phase)
		if t.Noise {
			seed ^= seed << 13
			seed ^= seed >> 17
			seed ^= seed << 5
			v = 0.6*v + 0.4*(float64(seed)/math.MaxUint32*2-1)
		}
		v *= 1 - f

		s := uint16(int16(v * 0.5 * math.MaxInt16))
		binary.LittleEndian.PutUint16(out[i*4:], s)
		binary.LittleEndian.PutUint16(out[i*4+2:], s)
	}
	return out
}
