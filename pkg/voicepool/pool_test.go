package voicepool

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, capacity int, sources ...string) (*Pool, *fakeBackend, *fakeResolver) {
	t.Helper()
	backend := &fakeBackend{}
	resolver := newFakeResolver(sources...)
	pool := New(backend, resolver, Config{
		Capacity: capacity,
		Logf:     t.Logf,
	})
	return pool, backend, resolver
}

func TestPlayAllocatesLowestFreeSlot(t *testing.T) {
	pool, _, _ := newTestPool(t, 4, "a", "b", "c")

	seen := make(map[Slot]bool)
	for _, source := range []string{"a", "b", "c"} {
		slot, err := pool.Play(source, false)
		require.NoError(t, err)
		require.GreaterOrEqual(t, int(slot), 0)
		require.Less(t, int(slot), 4)
		require.False(t, seen[slot], "slot %d handed out twice", slot)
		seen[slot] = true
	}

	pool.Release(1)
	slot, err := pool.Play("a", false)
	require.NoError(t, err)
	assert.Equal(t, Slot(1), slot, "freed slot should be reused lowest-first")
}

func TestPlayScenario(t *testing.T) {
	// capacity=2; play(A) -> 0; play(B, loop) -> 1; play(C) -> exhausted;
	// release(0); play(C) -> 0.
	pool, _, _ := newTestPool(t, 2, "A", "B", "C")

	slot, err := pool.Play("A", false)
	require.NoError(t, err)
	assert.Equal(t, Slot(0), slot)

	slot, err = pool.Play("B", true)
	require.NoError(t, err)
	assert.Equal(t, Slot(1), slot)

	_, err = pool.Play("C", false)
	require.ErrorIs(t, err, ErrPoolExhausted)
	assert.Equal(t, 2, pool.ActiveCount(), "failed play must not allocate")

	pool.Release(0)
	slot, err = pool.Play("C", false)
	require.NoError(t, err)
	assert.Equal(t, Slot(0), slot)
}

func TestPlayInvalidSource(t *testing.T) {
	pool, backend, _ := newTestPool(t, 2, "known")

	_, err := pool.Play("nope", false)
	require.ErrorIs(t, err, ErrInvalidSource)
	assert.Equal(t, 0, pool.ActiveCount())
	assert.Empty(t, backend.sessions, "no session may be created for an invalid source")
}

func TestPlayBackendCreationFailure(t *testing.T) {
	pool, backend, _ := newTestPool(t, 2, "a")
	backend.failNext = errBackendBoom

	_, err := pool.Play("a", false)
	require.ErrorIs(t, err, errBackendBoom)
	assert.Equal(t, 0, pool.ActiveCount(), "failed creation must not consume a slot")
}

func TestReleaseIsIdempotent(t *testing.T) {
	pool, backend, _ := newTestPool(t, 2, "a")

	slot, err := pool.Play("a", false)
	require.NoError(t, err)
	sess := backend.last()

	pool.Release(slot)
	pool.Release(slot)
	pool.Release(Slot(7)) // out of range, still a no-op

	assert.Equal(t, 1, sess.stopped)
	assert.Equal(t, 1, sess.closed)
	assert.Equal(t, 0, pool.ActiveCount())
}

func TestReleaseAll(t *testing.T) {
	pool, backend, _ := newTestPool(t, 3, "a", "b")

	_, err := pool.Play("a", false)
	require.NoError(t, err)
	_, err = pool.Play("b", true)
	require.NoError(t, err)

	pool.ReleaseAll()
	assert.Equal(t, 0, pool.ActiveCount())
	for _, sess := range backend.sessions {
		assert.Equal(t, 1, sess.stopped)
		assert.Equal(t, 1, sess.closed)
	}
	assert.Empty(t, pool.looping)
}

func TestCompletionReleasesSlot(t *testing.T) {
	pool, backend, _ := newTestPool(t, 2, "a", "b")

	slot, err := pool.Play("a", false)
	require.NoError(t, err)
	sess := backend.last()

	sess.complete()
	assert.Equal(t, 0, pool.ActiveCount())

	next, err := pool.Play("b", false)
	require.NoError(t, err)
	assert.Equal(t, slot, next, "completed slot should be free again")
}

func TestBackendErrorReleasesSlotAndLogs(t *testing.T) {
	var logged []string
	backend := &fakeBackend{}
	pool := New(backend, newFakeResolver("a"), Config{
		Capacity: 2,
		Logf: func(format string, args ...interface{}) {
			logged = append(logged, fmt.Sprintf(format, args...))
		},
	})

	_, err := pool.Play("a", false)
	require.NoError(t, err)

	backend.last().fail(errBackendBoom)
	assert.Equal(t, 0, pool.ActiveCount())
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "boom")
}

func TestStaleCompletionDoesNotReleaseNewOccupant(t *testing.T) {
	pool, backend, _ := newTestPool(t, 1, "a", "b")

	slot, err := pool.Play("a", false)
	require.NoError(t, err)
	old := backend.last()

	pool.Release(slot)
	next, err := pool.Play("b", true)
	require.NoError(t, err)
	require.Equal(t, slot, next)

	// The old session's notification arrives late, after its slot has
	// been reallocated. The new occupant must survive.
	old.complete()
	assert.Equal(t, 1, pool.ActiveCount())
	assert.Equal(t, 0, backend.last().stopped)
}

func TestSuspendResumeRoundTrip(t *testing.T) {
	pool, backend, resolver := newTestPool(t, 4, "music", "sfx")
	resolver.known["music"] = 5 * time.Second // session starts with this position

	slot, err := pool.Play("music", true)
	require.NoError(t, err)
	assert.Equal(t, Slot(0), slot)
	_, err = pool.Play("sfx", false)
	require.NoError(t, err)

	pool.Suspend()
	assert.Equal(t, 0, pool.ActiveCount(), "suspend releases everything")
	require.Len(t, pool.suspended, 1, "only looping sessions are snapshotted")
	assert.Equal(t, 5*time.Second, pool.suspended["music"])

	pool.Resume()
	assert.Equal(t, 1, pool.ActiveCount(), "one looping session restored")
	assert.Empty(t, pool.suspended, "snapshot cleared after resume")

	restored := backend.last()
	assert.True(t, restored.Looping())
	assert.Equal(t, 5*time.Second, restored.Position(), "restored session seeked to saved position")
}

func TestResumeSkipsUnresolvableSources(t *testing.T) {
	pool, _, resolver := newTestPool(t, 4, "keep", "gone")

	_, err := pool.Play("keep", true)
	require.NoError(t, err)
	_, err = pool.Play("gone", true)
	require.NoError(t, err)

	pool.Suspend()
	require.Len(t, pool.suspended, 2)

	resolver.forget("gone")
	pool.Resume()

	assert.Equal(t, 1, pool.ActiveCount(), "resume is best-effort over remaining entries")
	assert.Empty(t, pool.suspended, "snapshot cleared even when entries fail")
}

func TestSuspendWithNothingLooping(t *testing.T) {
	pool, _, _ := newTestPool(t, 2, "sfx")

	_, err := pool.Play("sfx", false)
	require.NoError(t, err)

	pool.Suspend()
	assert.Equal(t, 0, pool.ActiveCount(), "release-all runs even with no looping sessions")
	assert.Empty(t, pool.suspended)

	pool.Resume()
	assert.Equal(t, 0, pool.ActiveCount())
}

func TestMuteMusicPausesLoopingInPlace(t *testing.T) {
	pool, backend, _ := newTestPool(t, 4, "music", "sfx")

	_, err := pool.Play("music", true)
	require.NoError(t, err)
	music := backend.last()
	_, err = pool.Play("sfx", false)
	require.NoError(t, err)
	effect := backend.last()

	pool.SetMusicMuted(true)
	assert.True(t, pool.MusicMuted())
	assert.Equal(t, 1, music.paused)
	assert.Equal(t, 0, effect.paused, "one-shots are not music")
	assert.Equal(t, 2, pool.ActiveCount(), "muting music never releases slots")

	pool.SetMusicMuted(false)
	assert.Equal(t, 1, music.resumed, "unmute resumes in place")
	assert.Equal(t, 2, pool.ActiveCount())
}

func TestPlayLoopWhileMusicMutedStartsPaused(t *testing.T) {
	backend := &fakeBackend{}
	pool := New(backend, newFakeResolver("music"), Config{Capacity: 2, MuteMusic: true, Logf: t.Logf})

	slot, err := pool.Play("music", true)
	require.NoError(t, err)

	sess := backend.last()
	assert.Equal(t, 1, sess.started)
	assert.Equal(t, 1, sess.paused, "looping session under mute is paused, not released")
	assert.True(t, sess.Looping())
	assert.Equal(t, 1, pool.ActiveCount())
	assert.Equal(t, "music", pool.looping[slot])
}

func TestMuteEffectsReleasesOneShots(t *testing.T) {
	pool, backend, _ := newTestPool(t, 4, "music", "sfx")

	_, err := pool.Play("music", true)
	require.NoError(t, err)
	_, err = pool.Play("sfx", false)
	require.NoError(t, err)
	effect := backend.last()

	pool.SetEffectsMuted(true)
	assert.True(t, pool.EffectsMuted())
	assert.Equal(t, 1, effect.closed, "active one-shots are released synchronously")
	assert.Equal(t, 1, pool.ActiveCount(), "looping session survives")
}

func TestPlayOneShotWhileEffectsMuted(t *testing.T) {
	backend := &fakeBackend{}
	pool := New(backend, newFakeResolver("sfx"), Config{Capacity: 2, MuteEffects: true, Logf: t.Logf})

	slot, err := pool.Play("sfx", false)
	require.NoError(t, err)
	assert.Equal(t, Slot(0), slot)

	sess := backend.last()
	assert.Equal(t, 1, sess.started)
	assert.Equal(t, 1, sess.stopped)
	assert.Equal(t, 1, sess.closed)
	assert.Equal(t, 0, pool.ActiveCount(), "muted one-shot is reclaimed before Play returns")
}

func TestUnmuteEffectsTakesNoRetroactiveAction(t *testing.T) {
	pool, backend, _ := newTestPool(t, 4, "music")

	_, err := pool.Play("music", true)
	require.NoError(t, err)

	pool.SetEffectsMuted(true)
	pool.SetEffectsMuted(false)
	assert.Equal(t, 1, pool.ActiveCount())
	assert.Equal(t, 0, backend.sessions[0].stopped)
}

func TestMuteFlagsSurviveSuspendResume(t *testing.T) {
	backend := &fakeBackend{}
	pool := New(backend, newFakeResolver("music"), Config{Capacity: 2, MuteMusic: true, MuteEffects: true, Logf: t.Logf})

	_, err := pool.Play("music", true)
	require.NoError(t, err)

	pool.Suspend()
	pool.Resume()

	assert.True(t, pool.MusicMuted(), "mute flags are policy, not session state")
	assert.True(t, pool.EffectsMuted())

	// The restored looping session honours the still-muted flag.
	restored := backend.last()
	assert.Equal(t, 1, restored.paused)
}

func TestExhaustionAcrossFullCapacity(t *testing.T) {
	pool, _, _ := newTestPool(t, 3, "s")

	for i := 0; i < 3; i++ {
		slot, err := pool.Play("s", false)
		require.NoError(t, err)
		assert.Equal(t, Slot(i), slot)
	}
	_, err := pool.Play("s", false)
	require.ErrorIs(t, err, ErrPoolExhausted)

	pool.ReleaseAll()
	slot, err := pool.Play("s", false)
	require.NoError(t, err)
	assert.Equal(t, Slot(0), slot)
}

func TestDefaultConfig(t *testing.T) {
	pool := New(&fakeBackend{}, newFakeResolver(), DefaultConfig())
	assert.Equal(t, DefaultCapacity, pool.Capacity())
	assert.True(t, pool.MusicMuted())
	assert.False(t, pool.EffectsMuted())
}
