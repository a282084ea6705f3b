// Package bank implements the .crkb sound-bank container: an 8-byte
// magic, a run of TLV metadata tags, one AUDI block of length-prefixed
// opus frames, and a TTOC tag holding the JSON table of contents.
// Frames may be sealed per-frame with AES-GCM when the bank is locked.
package bank

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"croakbox/internal/security"
	"croakbox/pkg/spec"
)

// Entry describes one sound inside the audio block.
type Entry struct {
	Name        string  `json:"name"`
	OriginFile  string  `json:"origin_file"`
	Offset      uint64  `json:"offset"`
	Size        uint64  `json:"size"`
	Duration    float64 `json:"duration"`
	Fingerprint string  `json:"fingerprint"`
}

type ReadSeekerAt interface {
	io.ReadSeeker
	io.ReaderAt
}

// Bank is an unpacked .crkb file. The reader stays open for frame access.
type Bank struct {
	Reader  ReadSeekerAt
	Title   string
	Author  string
	Comment string
	Entries []Entry
}

// Lookup finds an entry by name.
func (b *Bank) Lookup(name string) (Entry, bool) {
	for _, e := range b.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// ReadFrames reads one entry's opus frames. key decrypts each frame
// when the bank is locked; pass nil for an unlocked bank.
func (b *Bank) ReadFrames(e Entry, key []byte) ([][]byte, error) {
	if _, err := b.Reader.Seek(int64(e.Offset), io.SeekStart); err != nil {
		return nil, err
	}

	var frames [][]byte
	remaining := int64(e.Size)
	for remaining > 0 {
		var frameLen uint16
		if err := binary.Read(b.Reader, binary.BigEndian, &frameLen); err != nil {
			return nil, fmt.Errorf("reading frame length for %q: %w", e.Name, err)
		}
		raw := make([]byte, frameLen)
		if _, err := io.ReadFull(b.Reader, raw); err != nil {
			return nil, fmt.Errorf("reading frame for %q: %w", e.Name, err)
		}
		remaining -= int64(2 + int(frameLen))

		if key != nil {
			dec, err := security.Decrypt(raw, key)
			if err != nil {
				return nil, fmt.Errorf("unsealing frame for %q: %w", e.Name, err)
			}
			raw = dec
		}
		frames = append(frames, raw)
	}
	return frames, nil
}

// Unpack parses a .crkb stream. Unknown tags are skipped so newer banks
// stay readable.
func Unpack(r ReadSeekerAt) (*Bank, error) {
	magic := make([]byte, 8)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if string(magic) != spec.BankMagic {
		return nil, fmt.Errorf("invalid bank magic: %q", string(magic))
	}

	bank := &Bank{Reader: r}

	for {
		tagBuf := make([]byte, 4)
		if _, err := io.ReadFull(r, tagBuf); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		tag := string(tagBuf)

		var size uint32
		if err := binary.Read(r, binary.BigEndian, &size); err != nil {
			return nil, err
		}

		switch tag {
		case spec.Title:
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, err
			}
			bank.Title = string(buf)

		case spec.Author:
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, err
			}
			bank.Author = string(buf)

		case spec.Comment:
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, err
			}
			bank.Comment = string(buf)

		case spec.TableOfCont:
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, err
			}
			var entries []Entry
			if err := json.Unmarshal(buf, &entries); err != nil {
				return nil, fmt.Errorf("failed to parse TTOC: %w", err)
			}
			bank.Entries = entries

		default:
			// skip to the next tag
			if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
				return nil, err
			}
		}
	}

	if len(bank.Entries) == 0 {
		return nil, fmt.Errorf("no entries found in bank (TTOC missing or empty)")
	}

	return bank, nil
}
