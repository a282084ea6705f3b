// Package voicepool manages a bounded pool of concurrent playback
// sessions drawn from a fixed-capacity set of slots. It distinguishes
// looping sessions (music) from one-shot sessions (sound effects),
// propagates per-kind mute flags, and implements a suspend/resume
// protocol that stops all playback while preserving enough state to
// restart looping sessions at their prior position.
package voicepool

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Slot identifies one concurrently-active playback session. Slots are
// assigned lowest-free-first and reused after release, so they stay
// small and predictable.
type Slot int

// NoSlot is returned by Play alongside a non-nil error.
const NoSlot Slot = -1

// DefaultCapacity is the slot count used when Config.Capacity is zero.
const DefaultCapacity = 10

// Config carries construction options for a Pool. The zero value of the
// mute flags means audible; DefaultConfig mirrors the defaults of the
// game this pool was built for, where music starts muted.
type Config struct {
	// Capacity is the maximum number of concurrently active sessions.
	// DefaultCapacity is used when it is not positive.
	Capacity int
	// MuteMusic is the initial music mute flag.
	MuteMusic bool
	// MuteEffects is the initial effects mute flag.
	MuteEffects bool
	// Logf receives diagnostics the pool absorbs instead of returning
	// (backend errors, resume skips). Defaults to log.Printf.
	Logf func(format string, args ...interface{})
}

// DefaultConfig returns the stock configuration: DefaultCapacity slots,
// music muted, effects audible.
func DefaultConfig() Config {
	return Config{Capacity: DefaultCapacity, MuteMusic: true}
}

// Pool owns every active session. All three tables are guarded by one
// mutex, so slot mutations from backend notifications and from direct
// calls are mutually exclusive.
type Pool struct {
	backend  Backend
	resolver Resolver
	capacity int
	logf     func(format string, args ...interface{})

	mu sync.Mutex
	// active maps occupied slots to their live sessions.
	active map[Slot]Session
	// looping maps a slot to its source reference iff the session
	// occupying that slot is looping.
	looping map[Slot]string
	// suspended holds source reference -> saved position, populated by
	// Suspend and drained unconditionally by Resume.
	suspended map[string]time.Duration

	muteMusic bool
	muteSFX   bool
}

// New builds a Pool on the given backend and resolver.
func New(backend Backend, resolver Resolver, cfg Config) *Pool {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	logf := cfg.Logf
	if logf == nil {
		logf = log.Printf
	}
	return &Pool{
		backend:   backend,
		resolver:  resolver,
		capacity:  capacity,
		logf:      logf,
		active:    make(map[Slot]Session),
		looping:   make(map[Slot]string),
		suspended: make(map[string]time.Duration),
		muteMusic: cfg.MuteMusic,
		muteSFX:   cfg.MuteEffects,
	}
}

// Capacity reports the fixed slot count.
func (p *Pool) Capacity() int { return p.capacity }

// ActiveCount reports how many slots currently hold a live session.
func (p *Pool) ActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}

// Play validates the source reference, allocates the lowest free slot,
// creates and starts a backend session there, and returns the slot.
// With loop set, the session repeats until released and is registered
// as music; if music is muted it starts paused but keeps its slot. A
// one-shot started while effects are muted is released before Play
// returns. Backend end-of-session notifications release the exact slot
// they were registered for; backend errors are logged, never returned
// here.
func (p *Pool) Play(source string, loop bool) (Slot, error) {
	h, ok := p.resolver.Resolve(source)
	if !ok {
		return NoSlot, ErrInvalidSource
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	slot, ok := p.freeSlot()
	if !ok {
		return NoSlot, ErrPoolExhausted
	}

	var sess Session
	notify := func(ev Event, err error) {
		if ev == EventError {
			p.logf("voicepool: backend error on slot %d (%s): %v", slot, source, err)
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		// The slot may have been released and reallocated since this
		// notification was registered; only tear down our own session.
		if cur, ok := p.active[slot]; ok && cur == sess {
			p.releaseLocked(slot)
		}
	}

	created, err := p.backend.NewSession(h, notify)
	if err != nil {
		return NoSlot, fmt.Errorf("voicepool: creating session for %q: %w", source, err)
	}
	sess = created

	p.active[slot] = sess
	sess.Start()

	if loop {
		p.looping[slot] = source
		sess.SetLooping(true)
		if p.muteMusic {
			sess.Pause()
		}
	} else if p.muteSFX {
		// A muted effect has no reason to keep occupying a slot.
		p.releaseLocked(slot)
	}

	return slot, nil
}

// Release tears down the session occupying slot, if any. Releasing an
// empty slot is a silent no-op, so Release is idempotent.
func (p *Pool) Release(slot Slot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked(slot)
}

// ReleaseAll attempts a release on every slot, occupied or not. It is
// the panic-stop used by Suspend and by teardown of the whole pool.
func (p *Pool) ReleaseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseAllLocked()
}

// Suspend captures (source, position) for every active looping session,
// keyed by source because slot numbers are not stable across the
// suspend boundary, then releases everything. One-shot sessions are
// discarded without snapshot.
func (p *Pool) Suspend() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for slot, source := range p.looping {
		if sess, ok := p.active[slot]; ok {
			p.suspended[source] = sess.Position()
		}
	}
	p.releaseAllLocked()
}

// Resume restarts a looping session for every snapshot entry whose
// source still resolves, seeked to its saved position. Entries that no
// longer resolve are logged and skipped; Resume never aborts partway
// through the remaining entries. The snapshot is cleared
// unconditionally.
func (p *Pool) Resume() {
	p.mu.Lock()
	entries := p.suspended
	p.suspended = make(map[string]time.Duration)
	p.mu.Unlock()

	for source, pos := range entries {
		slot, err := p.Play(source, true)
		if err != nil {
			p.logf("voicepool: skipping %q on resume: %v", source, err)
			continue
		}
		p.mu.Lock()
		if sess, ok := p.active[slot]; ok {
			if err := sess.Seek(pos); err != nil {
				p.logf("voicepool: seeking %q to %v on resume: %v", source, pos, err)
			}
		}
		p.mu.Unlock()
	}
}

// SetMusicMuted updates the music mute flag and pauses or resumes every
// active looping session in place. Slots and positions are kept.
func (p *Pool) SetMusicMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muteMusic = muted
	for slot := range p.looping {
		sess, ok := p.active[slot]
		if !ok {
			continue
		}
		if muted {
			sess.Pause()
		} else {
			sess.Resume()
		}
	}
}

// SetEffectsMuted updates the effects mute flag. Newly muting releases
// every active one-shot session immediately; unmuting only affects
// one-shots started afterwards.
func (p *Pool) SetEffectsMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muteSFX = muted
	if !muted {
		return
	}
	for slot := Slot(0); slot < Slot(p.capacity); slot++ {
		if _, ok := p.active[slot]; !ok {
			continue
		}
		if _, isLoop := p.looping[slot]; isLoop {
			continue
		}
		p.releaseLocked(slot)
	}
}

// MusicMuted reports the music mute flag.
func (p *Pool) MusicMuted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muteMusic
}

// EffectsMuted reports the effects mute flag.
func (p *Pool) EffectsMuted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muteSFX
}

// freeSlot scans slots in ascending order and returns the first one
// with no active session. The linear scan is intentional: lowest-first
// reuse keeps slot numbers stable, low-valued identifiers.
func (p *Pool) freeSlot() (Slot, bool) {
	for slot := Slot(0); slot < Slot(p.capacity); slot++ {
		if _, ok := p.active[slot]; !ok {
			return slot, true
		}
	}
	return NoSlot, false
}

func (p *Pool) releaseLocked(slot Slot) {
	sess, ok := p.active[slot]
	if !ok {
		return
	}
	delete(p.looping, slot)
	sess.Stop()
	sess.Close()
	delete(p.active, slot)
}

func (p *Pool) releaseAllLocked() {
	for slot := Slot(0); slot < Slot(p.capacity); slot++ {
		p.releaseLocked(slot)
	}
}
