package playback

import (
	"github.com/faiface/beep"
)

// loopStreamer replays its seeker from the start whenever loop is set.
// The flag is flipped at runtime under the speaker lock.
type loopStreamer struct {
	s    beep.StreamSeeker
	loop bool
	err  error
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	if l.err != nil {
		return 0, false
	}

	filled := 0
	for filled < len(samples) {
		n, ok := l.s.Stream(samples[filled:])
		filled += n
		if ok {
			continue
		}
		if err := l.s.Err(); err != nil {
			l.err = err
			break
		}
		if !l.loop || l.s.Len() == 0 {
			break
		}
		if err := l.s.Seek(0); err != nil {
			l.err = err
			break
		}
	}
	return filled, filled > 0
}

func (l *loopStreamer) Err() error { return l.err }

// memStreamer plays decoded samples from memory. Short game sounds and
// bank entries are decoded whole at open time, which keeps Seek and
// Position exact with no frame-offset bookkeeping.
type memStreamer struct {
	samples [][2]float64
	pos     int
}

func (m *memStreamer) Stream(samples [][2]float64) (int, bool) {
	if m.pos >= len(m.samples) {
		return 0, false
	}
	n := copy(samples, m.samples[m.pos:])
	m.pos += n
	return n, true
}

func (m *memStreamer) Err() error { return nil }

func (m *memStreamer) Len() int { return len(m.samples) }

func (m *memStreamer) Position() int { return m.pos }

func (m *memStreamer) Seek(p int) error {
	if p < 0 {
		p = 0
	}
	if p > len(m.samples) {
		p = len(m.samples)
	}
	m.pos = p
	return nil
}

// NewBufferStream wraps decoded samples in a seekable Stream.
func NewBufferStream(samples [][2]float64, format beep.Format) *Stream {
	return &Stream{
		Seeker: &memStreamer{samples: samples},
		Format: format,
	}
}

// BufferSource is a Source over samples already in memory.
type BufferSource struct {
	Samples [][2]float64
	Format  beep.Format
}

func (b *BufferSource) Open() (*Stream, error) {
	return NewBufferStream(b.Samples, b.Format), nil
}

// PCMToSamples converts interleaved stereo int16 PCM to beep samples.
func PCMToSamples(pcm []int16) [][2]float64 {
	samples := make([][2]float64, 0, len(pcm)/2)
	for i := 0; i+1 < len(pcm); i += 2 {
		samples = append(samples, [2]float64{
			float64(pcm[i]) / 32768.0,
			float64(pcm[i+1]) / 32768.0,
		})
	}
	return samples
}
