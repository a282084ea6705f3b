package voicepool

import "time"

// Handle is an opaque loadable handle produced by a Resolver and passed
// through to the Backend. The pool never inspects it.
type Handle interface{}

// Resolver looks up a named audio source. Resolve reports whether the
// source reference is known and, if so, returns a handle the backend can
// open a session from.
type Resolver interface {
	Resolve(source string) (Handle, bool)
}

// Event is the kind of asynchronous notification a backend delivers when
// a session ends on its own.
type Event int

const (
	// EventCompleted signals natural end of playback.
	EventCompleted Event = iota
	// EventError signals the backend failed mid-session. The pool treats
	// it the same as completion, after logging.
	EventError
)

// NotifyFunc receives the end-of-session notification for one session.
// Backends must call it at most once, from a goroutine of their own, and
// never synchronously from within a Session method.
type NotifyFunc func(ev Event, err error)

// Backend creates playback sessions from resolved handles.
type Backend interface {
	NewSession(h Handle, notify NotifyFunc) (Session, error)
}

// Session is one live backend playback instance. The pool owns it
// exclusively; callers only ever see slot numbers.
type Session interface {
	// Start begins playback from the current position.
	Start()
	// Pause halts playback in place without losing position.
	Pause()
	// Resume continues playback from where Pause left it.
	Resume()
	// Seek moves the playhead to pos.
	Seek(pos time.Duration) error
	// Position reports the current playhead.
	Position() time.Duration
	// SetLooping switches the session between repeat-forever and one-shot.
	SetLooping(loop bool)
	// Looping reports the current loop setting.
	Looping() bool
	// Stop halts playback permanently.
	Stop()
	// Close frees backend resources. Stop then Close is the teardown order.
	Close()
}
