package codec

import (
	"crypto/sha256"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

type landmark struct {
	window int
	bin    int
}

// Fingerprint derives a short content hash from PCM by collecting the
// dominant frequency bin of each FFT window and hashing the landmark
// sequence. Identical clips fingerprint identically, so the bankmaker
// can flag accidental duplicates.
func Fingerprint(pcm []int16) string {
	const fftSize = 1024
	const stride = 512

	var landmarks []landmark
	window := make([]float64, fftSize)

	for i := 0; i+fftSize <= len(pcm); i += stride {
		for j := 0; j < fftSize; j++ {
			window[j] = float64(pcm[i+j]) / 32768.0
		}

		coeffs := fft.FFTReal(window)

		maxMag := 0.0
		peakBin := 0
		for bin := 1; bin < fftSize/2; bin++ {
			mag := cmplx.Abs(coeffs[bin])
			if mag > maxMag {
				maxMag = mag
				peakBin = bin
			}
		}

		// quiet windows carry no landmark
		if maxMag > 0.01 {
			landmarks = append(landmarks, landmark{window: i / stride, bin: peakBin})
		}
	}

	h := sha256.New()
	for _, l := range landmarks {
		fmt.Fprintf(h, "%d|%d", l.window, l.bin)
	}
	return fmt.Sprintf("CRKB-FP-%x", h.Sum(nil)[:12])
}

// PeakLevel reports the loudest absolute sample as a 0..1 fraction,
// used by the bankmaker to warn about silent input files.
func PeakLevel(pcm []int16) float64 {
	var max float64
	for _, s := range pcm {
		v := math.Abs(float64(s))
		if v > max {
			max = v
		}
	}
	return max / 32768.0
}
