// Package source opens transcription files and reads them line by line.
//
// Inputs may be plain text, gzip or zstd. The compression is detected from
// the leading magic bytes, so compressed streams on stdin work as well.
package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// MaxLineSize is the longest line a LineReader accepts.
const MaxLineSize = 1 << 20

// Compression kinds reported by Detect.
const (
	Plain = "plain"
	Gzip  = "gzip"
	Zstd  = "zstd"
)

var (
	// ErrEmptyPath is returned by Open for an empty path.
	ErrEmptyPath = errors.New("source path is empty")

	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Open opens path for reading, or stdin for "-", and transparently
// decompresses gzip and zstd content. Closing the result closes the file.
func Open(path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if path == Stdin {
		return Decompress(io.NopCloser(os.Stdin))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	rc, err := Decompress(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return rc, nil
}

// Decompress wraps rc with a decoder matching its content.
func Decompress(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to sniff compression: %w", err)
	}

	switch Detect(head) {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("invalid gzip stream: %w", err)
		}
		return &decoded{Reader: zr, closers: []func() error{zr.Close, rc.Close}}, nil
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("invalid zstd stream: %w", err)
		}
		return &decoded{Reader: zr, closers: []func() error{
			func() error { zr.Close(); return nil },
			rc.Close,
		}}, nil
	default:
		return &decoded{Reader: br, closers: []func() error{rc.Close}}, nil
	}
}

// Detect names the compression of a stream from its first bytes.
func Detect(head []byte) string {
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	default:
		return Plain
	}
}

type decoded struct {
	io.Reader
	closers []func() error
}

func (d *decoded) Close() error {
	var errs []error
	for _, c := range d.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LineReader yields the lines of a reader without their line endings.
type LineReader struct {
	r   io.Reader
	err error
}

// NewLineReader creates a LineReader over r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: r}
}

// All yields every line once. The reader is consumed by the first range;
// check Err afterwards.
func (lr *LineReader) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		sc := bufio.NewScanner(lr.r)
		sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
		for sc.Scan() {
			if !yield(sc.Text()) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			lr.err = fmt.Errorf("failed to read lines: %w", err)
		}
	}
}

// Err returns the first read error, if any.
func (lr *LineReader) Err() error { return lr.err }
