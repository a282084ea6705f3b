package bank

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"croakbox/internal/security"
	"croakbox/pkg/spec"
)

// Meta is the descriptive header of a bank under construction.
type Meta struct {
	Title   string
	Author  string
	Comment string
}

// Writer forges a .crkb file: metadata tags first, then the audio
// block, then the table of contents. Entries are appended with Add and
// the TTOC is written by Finalize.
type Writer struct {
	w          io.WriteSeeker
	key        []byte
	entries    []Entry
	audioSize  int64
	audioStart int64
	sizePos    int64
	finalized  bool
}

// NewWriter writes the header and opens the audio block. key seals each
// frame with AES-GCM; pass nil for an unlocked bank.
func NewWriter(w io.WriteSeeker, meta Meta, key []byte) (*Writer, error) {
	if _, err := w.Write([]byte(spec.BankMagic)); err != nil {
		return nil, err
	}
	if err := writeTag(w, spec.Title, []byte(meta.Title)); err != nil {
		return nil, err
	}
	if meta.Author != "" {
		if err := writeTag(w, spec.Author, []byte(meta.Author)); err != nil {
			return nil, err
		}
	}
	if meta.Comment != "" {
		if err := writeTag(w, spec.Comment, []byte(meta.Comment)); err != nil {
			return nil, err
		}
	}

	if _, err := w.Write([]byte(spec.AudioData)); err != nil {
		return nil, err
	}
	sizePos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	// placeholder, backfilled by Finalize
	if err := binary.Write(w, binary.BigEndian, uint32(0)); err != nil {
		return nil, err
	}
	audioStart, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	return &Writer{w: w, key: key, sizePos: sizePos, audioStart: audioStart}, nil
}

// Add appends one sound's frames to the audio block and records its
// table-of-contents entry.
func (bw *Writer) Add(name, originFile string, frames [][]byte, duration float64, fingerprint string) error {
	if bw.finalized {
		return fmt.Errorf("bank already finalized")
	}

	offset := uint64(bw.audioStart + bw.audioSize)
	var size uint64

	for _, frame := range frames {
		payload := frame
		if bw.key != nil {
			sealed, err := security.Encrypt(frame, bw.key)
			if err != nil {
				return err
			}
			payload = sealed
		}
		if len(payload) > 0xFFFF {
			return fmt.Errorf("frame too large for %q: %d bytes", name, len(payload))
		}
		if err := binary.Write(bw.w, binary.BigEndian, uint16(len(payload))); err != nil {
			return err
		}
		if _, err := bw.w.Write(payload); err != nil {
			return err
		}
		size += uint64(2 + len(payload))
	}

	bw.audioSize += int64(size)
	bw.entries = append(bw.entries, Entry{
		Name:        name,
		OriginFile:  originFile,
		Offset:      offset,
		Size:        size,
		Duration:    duration,
		Fingerprint: fingerprint,
	})
	return nil
}

// Entries returns what has been added so far, for dedupe checks.
func (bw *Writer) Entries() []Entry { return bw.entries }

// Finalize backfills the audio block size and writes the TTOC tag.
func (bw *Writer) Finalize() error {
	if bw.finalized {
		return fmt.Errorf("bank already finalized")
	}
	bw.finalized = true

	end, err := bw.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := bw.w.Seek(bw.sizePos, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(bw.w, binary.BigEndian, uint32(bw.audioSize)); err != nil {
		return err
	}
	if _, err := bw.w.Seek(end, io.SeekStart); err != nil {
		return err
	}

	toc, err := json.Marshal(bw.entries)
	if err != nil {
		return err
	}
	return writeTag(bw.w, spec.TableOfCont, toc)
}

func writeTag(w io.Writer, tag string, data []byte) error {
	if _, err := w.Write([]byte(tag)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}
