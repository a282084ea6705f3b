package playback

import (
	"sync"
	"time"

	"croakbox/pkg/voicepool"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

type session struct {
	stream *Stream
	ctrl   *beep.Ctrl
	loop   *loopStreamer
	notify voicepool.NotifyFunc

	notifyOnce sync.Once
	closeOnce  sync.Once
}

func (s *session) Start() {
	speaker.Play(beep.Seq(s.ctrl, beep.Callback(s.finished)))
}

func (s *session) Pause() {
	speaker.Lock()
	s.ctrl.Paused = true
	speaker.Unlock()
}

func (s *session) Resume() {
	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()
}

func (s *session) Seek(pos time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()
	n := s.stream.Format.SampleRate.N(pos)
	if max := s.stream.Seeker.Len(); n >= max {
		if max > 0 {
			n = max - 1
		} else {
			n = 0
		}
	}
	if n < 0 {
		n = 0
	}
	return s.stream.Seeker.Seek(n)
}

func (s *session) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	return s.stream.Format.SampleRate.D(s.stream.Seeker.Position())
}

func (s *session) SetLooping(loop bool) {
	speaker.Lock()
	s.loop.loop = loop
	speaker.Unlock()
}

func (s *session) Looping() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return s.loop.loop
}

// Stop detaches the session from the mixer. The nil Ctrl streamer drains
// immediately, so the mixer drops it and the trailing callback fires.
func (s *session) Stop() {
	speaker.Lock()
	s.ctrl.Streamer = nil
	speaker.Unlock()
}

func (s *session) Close() {
	s.Stop()
	s.closeOnce.Do(func() {
		if s.stream.Close != nil {
			s.stream.Close()
		}
	})
}

// finished runs on the speaker goroutine under the speaker lock, so the
// notification is handed off to a goroutine of our own before it can
// touch the pool.
func (s *session) finished() {
	go s.deliver()
}

func (s *session) deliver() {
	s.notifyOnce.Do(func() {
		speaker.Lock()
		err := s.loop.err
		speaker.Unlock()
		if err != nil {
			s.notify(voicepool.EventError, err)
			return
		}
		s.notify(voicepool.EventCompleted, nil)
	})
}
