// Package replay records the event stream of a match as zstd-compressed JSONL,
// one entry per tick, so a match can be inspected or replayed later.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ErrClosed is returned when writing to a closed recorder.
var ErrClosed = errors.New("replay recorder is closed")

// Entry is one tick of a recorded match.
type Entry struct {
	Tick   uint64   `json:"tick"`
	AtMs   int64    `json:"at_ms"`
	Events []string `json:"events"`
}

// Header is the first line of every replay file.
type Header struct {
	MatchID  string `json:"match_id"`
	Seed     int64  `json:"seed"`
	Strategy string `json:"strategy"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Arena    string `json:"arena"`
}

// Recorder appends entries to <dir>/<match id>.jsonl.zst.
type Recorder struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Path returns the replay file of a match inside dir.
func Path(dir, matchID string) string {
	return filepath.Join(dir, fmt.Sprintf("%s.jsonl.zst", matchID))
}

// Create opens a new replay file and writes its header.
func Create(dir string, h Header) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(Path(dir, h.MatchID), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r := &Recorder{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}
	if err := r.write(h); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// RecordTick appends the encoded events of one tick.
func (r *Recorder) RecordTick(tick uint64, atMs int64, lines []string) error {
	return r.write(Entry{Tick: tick, AtMs: atMs, Events: lines})
}

func (r *Recorder) write(v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return ErrClosed
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// Close flushes and closes the file. It is safe to call more than once.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return nil
	}
	err := r.w.Flush()
	if cerr := r.enc.Close(); err == nil {
		err = cerr
	}
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	r.w, r.enc, r.f = nil, nil, nil
	return err
}

// Read loads a replay file written by Recorder.
func Read(path string) (Header, []Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a compressed replay stream.
func Decode(r io.Reader) (Header, []Entry, error) {
	var h Header
	dec, err := zstd.NewReader(r)
	if err != nil {
		return h, nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return h, nil, err
		}
		return h, nil, io.ErrUnexpectedEOF
	}
	if err := json.Unmarshal(sc.Bytes(), &h); err != nil {
		return h, nil, fmt.Errorf("replay header: %w", err)
	}

	var entries []Entry
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return h, entries, fmt.Errorf("replay entry %d: %w", len(entries), err)
		}
		entries = append(entries, e)
	}
	return h, entries, sc.Err()
}
