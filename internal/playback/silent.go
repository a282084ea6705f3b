package playback

import (
	"sync"
	"time"

	"croakbox/pkg/voicepool"
)

// silentOneShotAfter is how long a silent one-shot session pretends to
// play before reporting completion.
const silentOneShotAfter = 2 * time.Second

// SilentBackend is a no-op voicepool.Backend for machines without an
// audio device. The game stays playable, just without sound; positions
// advance with the wall clock so suspend/resume still round-trips, and
// non-looping sessions report completion after a fixed delay so their
// slots recycle.
type SilentBackend struct{}

func (SilentBackend) NewSession(h voicepool.Handle, notify voicepool.NotifyFunc) (voicepool.Session, error) {
	return &silentSession{notify: notify}, nil
}

type silentSession struct {
	notify voicepool.NotifyFunc

	mu      sync.Mutex
	started time.Time
	base    time.Duration
	paused  bool
	looping bool
	timer   *time.Timer
	done    bool
}

func (s *silentSession) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = time.Now()
	s.timer = time.AfterFunc(silentOneShotAfter, s.expire)
}

func (s *silentSession) expire() {
	s.mu.Lock()
	if s.looping || s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.mu.Unlock()
	s.notify(voicepool.EventCompleted, nil)
}

func (s *silentSession) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return
	}
	s.base += time.Since(s.started)
	s.paused = true
}

func (s *silentSession) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused {
		return
	}
	s.started = time.Now()
	s.paused = false
}

func (s *silentSession) Seek(pos time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = pos
	s.started = time.Now()
	return nil
}

func (s *silentSession) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused || s.started.IsZero() {
		return s.base
	}
	return s.base + time.Since(s.started)
}

func (s *silentSession) SetLooping(loop bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.looping = loop
}

func (s *silentSession) Looping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.looping
}

func (s *silentSession) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *silentSession) Close() {}
