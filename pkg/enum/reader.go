package enum

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

const readBufferSize = 64 << 10

// ReaderEnumerator splits a byte stream into lines.
type ReaderEnumerator struct {
	r     io.Reader
	max   int
	log   *slog.Logger
	dec   *encoding.Decoder
	stats Stats
}

// NewReaderEnumerator creates an enumerator over r.
func NewReaderEnumerator(r io.Reader, cfg Config) *ReaderEnumerator {
	return &ReaderEnumerator{
		r:   r,
		max: cfg.maxLineLength(),
		log: cfg.logger(),
		dec: unicode.UTF8.NewDecoder(),
	}
}

// Stats returns the counters of the last Enumerate call.
func (e *ReaderEnumerator) Stats() Stats {
	return e.stats
}

// Enumerate reads lines until EOF. Lines end at '\n'; a trailing '\r' is
// dropped. A final line without terminator is still yielded.
func (e *ReaderEnumerator) Enumerate(ctx context.Context, fn func(index int, line string) error) error {
	e.stats = Stats{}
	br := bufio.NewReaderSize(e.r, readBufferSize)
	var buf []byte

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, n, truncated, err := e.readLine(br, buf[:0])
		buf = line
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read line %d: %w", index+1, err)
		}
		if n == 0 && err != nil {
			return nil
		}

		if truncated {
			e.stats.Truncated++
			e.log.Warn("line truncated", "line", index+1, "limit", e.max)
		}
		if !truncated && len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}

		text, decErr := e.decode(line, index)
		if decErr != nil {
			return decErr
		}

		e.stats.Lines++
		if cbErr := fn(index, text); cbErr != nil {
			return cbErr
		}
		if err != nil {
			return nil
		}
	}
}

// readLine appends the next line to buf, keeping at most e.max bytes. It
// returns the line, the raw bytes consumed and whether the line was cut.
func (e *ReaderEnumerator) readLine(br *bufio.Reader, buf []byte) ([]byte, int, bool, error) {
	consumed := 0
	truncated := false
	for {
		frag, err := br.ReadSlice('\n')
		consumed += len(frag)
		if n := len(frag); n > 0 && frag[n-1] == '\n' {
			frag = frag[:n-1]
		}

		room := e.max - len(buf)
		if len(frag) > room {
			frag = frag[:room]
			truncated = true
		}
		buf = append(buf, frag...)

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return buf, consumed, truncated, err
	}
}

// decode returns line as valid UTF-8, replacing invalid sequences with
// U+FFFD.
func (e *ReaderEnumerator) decode(line []byte, index int) (string, error) {
	if utf8.Valid(line) {
		return string(line), nil
	}
	out, err := e.dec.Bytes(line)
	if err != nil {
		return "", fmt.Errorf("failed to decode line %d: %w", index+1, err)
	}
	e.stats.Lossy++
	e.log.Debug("invalid UTF-8 replaced", "line", index+1)
	return string(out), nil
}

// FileEnumerator reads lines from a file path.
type FileEnumerator struct {
	path  string
	cfg   Config
	inner *ReaderEnumerator
}

// NewFileEnumerator creates an enumerator over the file at path. The file is
// opened by Enumerate.
func NewFileEnumerator(path string, cfg Config) *FileEnumerator {
	return &FileEnumerator{path: path, cfg: cfg}
}

// Enumerate opens the file and yields its lines.
func (e *FileEnumerator) Enumerate(ctx context.Context, fn func(index int, line string) error) error {
	f, err := os.Open(e.path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	e.inner = NewReaderEnumerator(f, e.cfg)
	return e.inner.Enumerate(ctx, fn)
}

// Stats returns the counters of the last Enumerate call.
func (e *FileEnumerator) Stats() Stats {
	if e.inner == nil {
		return Stats{}
	}
	return e.inner.Stats()
}

// StringEnumerator yields a fixed slice of lines as given.
type StringEnumerator []string

// Enumerate yields each element as one line.
func (s StringEnumerator) Enumerate(ctx context.Context, fn func(index int, line string) error) error {
	for i, line := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(i, line); err != nil {
			return err
		}
	}
	return nil
}
