package codec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"croakbox/pkg/spec"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hraban/opus"
)

// FrameSamples is the per-channel sample count of one opus frame.
const FrameSamples = spec.SampleRate * spec.FrameMillis / 1000

// EncodeWAV reads a 48 kHz stereo WAV file and encodes it into 20ms
// opus frames. It streams roughly one second of PCM per read cycle so
// large files never sit in memory whole. Returns the frames and the
// clip duration in seconds.
func EncodeWAV(inputPath string) ([][]byte, float64, error) {
	if strings.ToLower(filepath.Ext(inputPath)) != ".wav" {
		return nil, 0, fmt.Errorf("only .wav input is supported")
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	dec.ReadInfo()
	if dec.SampleRate != spec.SampleRate || int(dec.NumChans) != spec.Channels {
		return nil, 0, fmt.Errorf("%s: want %d Hz %d-channel wav, got %d Hz %d-channel",
			filepath.Base(inputPath), spec.SampleRate, spec.Channels, dec.SampleRate, dec.NumChans)
	}

	enc, err := opus.NewEncoder(spec.SampleRate, spec.Channels, opus.AppAudio)
	if err != nil {
		return nil, 0, err
	}

	pcmBuf := make([]int16, FrameSamples*spec.Channels)
	opusBuf := make([]byte, 1500)

	intBuf := &audio.IntBuffer{
		Data:   make([]int, spec.SampleRate*spec.Channels),
		Format: &audio.Format{NumChannels: spec.Channels, SampleRate: spec.SampleRate},
	}

	var frames [][]byte
	totalSamples := 0
	for {
		n, err := dec.PCMBuffer(intBuf)
		if err != nil && err != io.EOF {
			return nil, 0, err
		}
		if n == 0 {
			break
		}

		for i := 0; i < n; i += len(pcmBuf) {
			batch := len(pcmBuf)
			if i+batch > n {
				batch = n - i
				// pad the tail frame with silence
				for j := range pcmBuf {
					pcmBuf[j] = 0
				}
			}
			for j := 0; j < batch; j++ {
				pcmBuf[j] = int16(intBuf.Data[i+j])
			}

			written, err := enc.Encode(pcmBuf, opusBuf)
			if err != nil {
				return nil, 0, err
			}
			frame := make([]byte, written)
			copy(frame, opusBuf[:written])
			frames = append(frames, frame)
			totalSamples += batch
		}

		if err == io.EOF {
			break
		}
	}

	duration := float64(totalSamples) / float64(spec.SampleRate) / float64(spec.Channels)
	return frames, duration, nil
}

// DecodeFrames turns opus frames back into interleaved stereo PCM.
func DecodeFrames(frames [][]byte) ([]int16, error) {
	dec, err := opus.NewDecoder(spec.SampleRate, spec.Channels)
	if err != nil {
		return nil, err
	}

	var pcm []int16
	out := make([]int16, FrameSamples*spec.Channels*6) // room for long frames
	for _, frame := range frames {
		n, err := dec.Decode(frame, out)
		if err != nil {
			return nil, err
		}
		pcm = append(pcm, out[:n*spec.Channels]...)
	}
	return pcm, nil
}

// NormalizePCM performs in-place peak normalization.
func NormalizePCM(samples []int16) []int16 {
	var max int16 = 0
	for _, s := range samples {
		absS := s
		if s < 0 {
			absS = -s
		}
		if absS > max {
			max = absS
		}
	}
	if max == 0 {
		return samples
	}

	ratio := 32760.0 / float64(max)
	for i := range samples {
		samples[i] = int16(float64(samples[i]) * ratio)
	}
	return samples
}
