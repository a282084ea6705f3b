package voicepool

import (
	"errors"
	"sync"
	"time"
)

// fakeSession records every control call so tests can assert on the
// pool's side of the contract without a real speaker.
type fakeSession struct {
	mu sync.Mutex

	started int
	paused  int
	resumed int
	stopped int
	closed  int

	looping bool
	pos     time.Duration
	seekErr error

	notify NotifyFunc
}

func (s *fakeSession) Start() { s.mu.Lock(); defer s.mu.Unlock(); s.started++ }
func (s *fakeSession) Pause() { s.mu.Lock(); defer s.mu.Unlock(); s.paused++ }
func (s *fakeSession) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumed++
}

func (s *fakeSession) Seek(pos time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seekErr != nil {
		return s.seekErr
	}
	s.pos = pos
	return nil
}

func (s *fakeSession) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

func (s *fakeSession) SetLooping(loop bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.looping = loop
}

func (s *fakeSession) Looping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.looping
}

func (s *fakeSession) Stop()  { s.mu.Lock(); defer s.mu.Unlock(); s.stopped++ }
func (s *fakeSession) Close() { s.mu.Lock(); defer s.mu.Unlock(); s.closed++ }

// complete simulates the backend's asynchronous end-of-playback
// notification. Tests call it from the test goroutine, which is outside
// any pool call, matching the backend contract.
func (s *fakeSession) complete() { s.notify(EventCompleted, nil) }

func (s *fakeSession) fail(err error) { s.notify(EventError, err) }

type fakeBackend struct {
	mu       sync.Mutex
	sessions []*fakeSession
	failNext error
}

func (b *fakeBackend) NewSession(h Handle, notify NotifyFunc) (Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failNext != nil {
		err := b.failNext
		b.failNext = nil
		return nil, err
	}
	sess := &fakeSession{notify: notify}
	if pos, ok := h.(time.Duration); ok {
		sess.pos = pos
	}
	b.sessions = append(b.sessions, sess)
	return sess, nil
}

// last returns the most recently created session.
func (b *fakeBackend) last() *fakeSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessions[len(b.sessions)-1]
}

// fakeResolver resolves any name present in the set. The handle is the
// optional position seed, so fakeSession can report a nonzero Position.
type fakeResolver struct {
	mu      sync.Mutex
	known   map[string]time.Duration
	missing map[string]bool
}

func newFakeResolver(names ...string) *fakeResolver {
	r := &fakeResolver{known: make(map[string]time.Duration), missing: make(map[string]bool)}
	for _, n := range names {
		r.known[n] = 0
	}
	return r
}

func (r *fakeResolver) Resolve(source string) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missing[source] {
		return nil, false
	}
	pos, ok := r.known[source]
	if !ok {
		return nil, false
	}
	return pos, true
}

func (r *fakeResolver) forget(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missing[source] = true
}

var errBackendBoom = errors.New("boom")
