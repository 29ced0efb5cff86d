// Package sound plays the move and capture cues.
package sound

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/qnkhuat/netchess/pkg"
	"go.uber.org/zap"
)

const sampleRate = 44100

// Player synthesizes the cues once and plays them on demand.
type Player struct {
	context *audio.Context
	sounds  map[pkg.Cue][]byte
	volume  float64
}

// NewPlayer creates the audio context. Only one may exist per process.
func NewPlayer() *Player {
	p := &Player{
		context: audio.NewContext(sampleRate),
		sounds: map[pkg.Cue][]byte{
			pkg.CueMove:    click(440, 0.08, 0.3),
			pkg.CueCapture: click(330, 0.12, 0.5),
		},
		volume: 0.5,
	}
	return p
}

// Play starts cue without waiting for it to finish.
func (p *Player) Play(cue pkg.Cue) {
	data, ok := p.sounds[cue]
	if !ok {
		return
	}
	player := p.context.NewPlayerFromBytes(data)
	player.SetVolume(p.volume)
	player.Play()
	zap.L().Debug("cue", zap.Int("cue", int(cue)))
}

// click is a short percussive sound, 16-bit stereo little endian.
func click(freq, duration, amplitude float64) []byte {
	samples := int(sampleRate * duration)
	data := make([]byte, samples*4)

	for i := 0; i < samples; i++ {
		t := float64(i) / sampleRate
		envelope := math.Exp(-t * 30)
		noise := (math.Sin(float64(i)*0.3) + math.Sin(float64(i)*0.7)) * 0.3
		sample := (math.Sin(2*math.Pi*freq*t) + noise) * envelope * amplitude

		val := int16(sample * 32767)
		data[i*4] = byte(val)
		data[i*4+1] = byte(val >> 8)
		data[i*4+2] = byte(val)
		data[i*4+3] = byte(val >> 8)
	}
	return data
}
