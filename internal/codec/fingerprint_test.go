package codec

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sine(freq float64, samples int) []int16 {
	pcm := make([]int16, samples)
	for i := range pcm {
		pcm[i] = int16(20000 * math.Sin(2*math.Pi*freq*float64(i)/48000.0))
	}
	return pcm
}

func TestFingerprintDeterministic(t *testing.T) {
	pcm := sine(440, 48000)
	a := Fingerprint(pcm)
	b := Fingerprint(pcm)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "CRKB-FP-"))
}

func TestFingerprintDiscriminates(t *testing.T) {
	a := Fingerprint(sine(440, 48000))
	b := Fingerprint(sine(880, 48000))
	assert.NotEqual(t, a, b, "clips with different dominant frequencies must differ")
}

func TestFingerprintSilence(t *testing.T) {
	silent := make([]int16, 48000)
	a := Fingerprint(silent)
	b := Fingerprint(silent)
	assert.Equal(t, a, b, "silence still fingerprints stably")
}

func TestPeakLevel(t *testing.T) {
	assert.Equal(t, 0.0, PeakLevel(make([]int16, 1024)))

	loud := sine(440, 1024)
	level := PeakLevel(loud)
	assert.InDelta(t, 20000.0/32768.0, level, 0.01)
}

func TestNormalizePCM(t *testing.T) {
	t.Run("scales peak to full range", func(t *testing.T) {
		pcm := []int16{100, -200, 50}
		NormalizePCM(pcm)
		assert.Equal(t, int16(-32760), pcm[1])
		assert.Equal(t, int16(16380), pcm[0])
	})

	t.Run("silence left untouched", func(t *testing.T) {
		pcm := []int16{0, 0, 0}
		NormalizePCM(pcm)
		assert.Equal(t, []int16{0, 0, 0}, pcm)
	})
}
