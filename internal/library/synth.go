package library

import (
	"math"

	"croakbox/internal/playback"
	"croakbox/pkg/spec"

	"github.com/faiface/beep"
)

// The built-in sounds the pond game expects. RegisterDefaults maps each
// of them to a synthesized source so the game needs no asset files.
const (
	SoundMusic    = "music"
	SoundFrogJump = "frog_jump"
	SoundToadJump = "toad_jump"
	SoundUndo     = "undo"
	SoundInvalid  = "invalid"
	SoundWin      = "win"
	SoundLose     = "lose"
)

var synthFormat = beep.Format{
	SampleRate:  beep.SampleRate(spec.SampleRate),
	NumChannels: spec.Channels,
	Precision:   2,
}

// RegisterDefaults installs a synthesized version of every built-in
// sound. Sounds loaded from a dir or bank beforehand are kept.
func RegisterDefaults(l *Library) {
	defaults := map[string][][2]float64{
		SoundMusic:    pondLoop(),
		SoundFrogJump: chirp(300, 620, 0.15),
		SoundToadJump: chirp(520, 260, 0.15),
		SoundUndo:     concat(tone(660, 0.06), tone(440, 0.08)),
		SoundInvalid:  tone(120, 0.2),
		SoundWin:      concat(tone(523, 0.12), tone(659, 0.12), tone(784, 0.25)),
		SoundLose:     concat(tone(392, 0.15), tone(330, 0.15), tone(262, 0.3)),
	}
	for name, samples := range defaults {
		if _, ok := l.Resolve(name); ok {
			continue
		}
		l.Register(name, &playback.BufferSource{Samples: samples, Format: synthFormat})
	}
}

// tone renders one sine note with a short attack and exponential decay.
func tone(freq float64, seconds float64) [][2]float64 {
	n := int(seconds * float64(spec.SampleRate))
	samples := make([][2]float64, n)
	attack := spec.SampleRate / 100 // 10ms
	for i := range samples {
		env := math.Exp(-3 * float64(i) / float64(n))
		if i < attack {
			env *= float64(i) / float64(attack)
		}
		v := 0.4 * env * math.Sin(2*math.Pi*freq*float64(i)/float64(spec.SampleRate))
		samples[i] = [2]float64{v, v}
	}
	return samples
}

// chirp sweeps linearly from f0 to f1.
func chirp(f0, f1 float64, seconds float64) [][2]float64 {
	n := int(seconds * float64(spec.SampleRate))
	samples := make([][2]float64, n)
	phase := 0.0
	for i := range samples {
		t := float64(i) / float64(n)
		freq := f0 + (f1-f0)*t
		phase += 2 * math.Pi * freq / float64(spec.SampleRate)
		env := math.Exp(-2 * t)
		v := 0.4 * env * math.Sin(phase)
		samples[i] = [2]float64{v, v}
	}
	return samples
}

// pondLoop is the ambient background: a slow four-note arpeggio that
// loops cleanly.
func pondLoop() [][2]float64 {
	var out [][2]float64
	for _, freq := range []float64{220, 277.18, 329.63, 277.18} {
		out = append(out, tone(freq, 0.9)...)
	}
	return out
}

func concat(parts ...[][2]float64) [][2]float64 {
	var out [][2]float64
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
