// Package library is the resource-lookup side of the audio stack: it
// maps source names to loadable handles the playback backend can open.
// Sounds can come from WAV files on disk, from .crkb bank entries, or
// from the built-in synthesizer, so the game is playable with no assets
// installed.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"croakbox/internal/bank"
	"croakbox/internal/codec"
	"croakbox/internal/playback"
	"croakbox/internal/security"
	"croakbox/pkg/spec"
	"croakbox/pkg/voicepool"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// Library implements voicepool.Resolver over a set of named sources.
type Library struct {
	mu      sync.RWMutex
	sources map[string]playback.Source
}

func New() *Library {
	return &Library{sources: make(map[string]playback.Source)}
}

// Register adds or replaces a named source.
func (l *Library) Register(name string, src playback.Source) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sources[name] = src
}

// Forget removes a named source.
func (l *Library) Forget(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sources, name)
}

// Resolve implements voicepool.Resolver.
func (l *Library) Resolve(name string) (voicepool.Handle, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	src, ok := l.sources[name]
	if !ok {
		return nil, false
	}
	return src, true
}

// Names lists every registered source in sorted order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.sources))
	for name := range l.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadDir registers every *.wav in dir under its base name (without
// extension). Returns how many sounds were registered.
func (l *Library) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() || strings.ToLower(filepath.Ext(entry.Name())) != ".wav" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		l.Register(name, &fileSource{path: filepath.Join(dir, entry.Name())})
		count++
	}
	return count, nil
}

// LoadBank registers every entry of a .crkb bank. A locked bank is
// opened with the password from its key locker file.
func (l *Library) LoadBank(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	b, err := bank.Unpack(f)
	if err != nil {
		f.Close()
		return 0, err
	}
	f.Close()

	var key []byte
	lockerPath := security.LockerPath(path)
	if _, err := os.Stat(lockerPath); err == nil {
		password, err := security.UnlockKeyLocker(lockerPath)
		if err != nil {
			return 0, fmt.Errorf("unlocking %s: %w", lockerPath, err)
		}
		key = security.DeriveKey(password, []byte(spec.Salt))
	}

	for _, entry := range b.Entries {
		l.Register(entry.Name, &bankSource{path: path, entry: entry, key: key})
	}
	return len(b.Entries), nil
}

// fileSource opens a WAV file fresh for every session.
type fileSource struct {
	path string
}

func (fs *fileSource) Open() (*playback.Stream, error) {
	f, err := os.Open(fs.path)
	if err != nil {
		return nil, err
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", fs.path, err)
	}
	return &playback.Stream{
		Seeker: streamer,
		Format: format,
		Close:  streamer.Close,
	}, nil
}

// bankSource decodes one bank entry whole at open time. Decoded PCM is
// held only for the session's lifetime.
type bankSource struct {
	path  string
	entry bank.Entry
	key   []byte
}

func (bs *bankSource) Open() (*playback.Stream, error) {
	f, err := os.Open(bs.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b := &bank.Bank{Reader: f}
	frames, err := b.ReadFrames(bs.entry, bs.key)
	if err != nil {
		return nil, err
	}
	pcm, err := codec.DecodeFrames(frames)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", bs.entry.Name, err)
	}
	pcm = codec.NormalizePCM(pcm)

	return playback.NewBufferStream(playback.PCMToSamples(pcm), beep.Format{
		SampleRate:  beep.SampleRate(spec.SampleRate),
		NumChannels: spec.Channels,
		Precision:   2,
	}), nil
}
