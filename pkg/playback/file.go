package playback

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ErrNotRecording is returned when exporting before Start.
var ErrNotRecording = errors.New("no active recording")

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// maxLineSize bounds a single NDJSON line when reading a recording back.
const maxLineSize = 64 << 20

type infoLine struct {
	Info *Info `json:"info"`
}

// Recording is a recording read back from disk.
type Recording struct {
	Info   Info
	Frames []Change
}

// FileName returns the file name for a recording, with a .jsonl or
// .jsonl.zst extension.
func FileName(base string, compress bool) string {
	base = strings.TrimSuffix(strings.TrimSuffix(base, ".zst"), ".jsonl")
	if compress {
		return base + ".jsonl.zst"
	}
	return base + ".jsonl"
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteTo writes the recording as NDJSON: the info line, then one line per
// frame.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.info == nil {
		return 0, ErrNotRecording
	}

	cw := &countingWriter{w: w}
	enc := json.NewEncoder(cw)
	if err := enc.Encode(infoLine{Info: r.info}); err != nil {
		return cw.n, fmt.Errorf("failed to write recording info: %w", err)
	}
	for i := range r.frames {
		if err := enc.Encode(&r.frames[i]); err != nil {
			return cw.n, fmt.Errorf("failed to write frame %d: %w", i, err)
		}
	}
	return cw.n, nil
}

// Export writes the recording to path, zstd-compressed when compress is
// set.
func (r *Recorder) Export(path string, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create recording file: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	var w io.Writer = bw
	var zw *zstd.Encoder
	if compress {
		zw, err = zstd.NewWriter(bw)
		if err != nil {
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		w = zw
	}

	if _, err := r.WriteTo(w); err != nil {
		if zw != nil {
			zw.Close()
		}
		return err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("failed to finish zstd stream: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write recording file: %w", err)
	}
	return f.Close()
}

// ReadRecording loads a recording written by Export. Compression is
// detected from the file contents.
func ReadRecording(path string) (*Recording, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}

	var r io.Reader = bytes.NewReader(contents)
	if bytes.HasPrefix(contents, zstdMagic) {
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer zr.Close()
		r = zr
	}
	return Decode(r)
}

// Decode reads an NDJSON recording from r.
func Decode(r io.Reader) (*Recording, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("failed to read recording info: %w", err)
		}
		return nil, errors.New("empty recording")
	}
	var head infoLine
	if err := json.Unmarshal(sc.Bytes(), &head); err != nil {
		return nil, fmt.Errorf("failed to parse recording info: %w", err)
	}
	if head.Info == nil {
		return nil, errors.New("recording does not start with an info line")
	}

	rec := &Recording{Info: *head.Info}
	for line := 2; sc.Scan(); line++ {
		if len(bytes.TrimSpace(sc.Bytes())) == 0 {
			continue
		}
		var c Change
		if err := json.Unmarshal(sc.Bytes(), &c); err != nil {
			return nil, fmt.Errorf("failed to parse line %d: %w", line, err)
		}
		rec.Frames = append(rec.Frames, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}
	return rec, nil
}
