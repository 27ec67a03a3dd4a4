package source

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const sample = "1. Alpha.\r\ncontinued\n2. Beta."

func readAll(t *testing.T, path string) []string {
	t.Helper()
	rc, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%s): %v", path, err)
	}
	defer rc.Close()
	lr := NewLineReader(rc)
	got := slices.Collect(lr.All())
	if err := lr.Err(); err != nil {
		t.Fatalf("Err(): %v", err)
	}
	return got
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	want := []string{"1. Alpha.", "continued", "2. Beta."}

	plain := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(plain, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	gw.Write([]byte(sample))
	gw.Close()
	gzPath := filepath.Join(dir, "doc.txt.gz")
	if err := os.WriteFile(gzPath, gz.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	if err != nil {
		t.Fatal(err)
	}
	zw.Write([]byte(sample))
	zw.Close()
	// no extension: detection is by content
	zsPath := filepath.Join(dir, "doc")
	if err := os.WriteFile(zsPath, zs.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{plain, gzPath, zsPath} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			if got := readAll(t, path); !slices.Equal(got, want) {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got := readAll(t, path); len(got) != 0 {
		t.Errorf("expected no lines, got %q", got)
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := Open(""); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("expected ErrEmptyPath, got %v", err)
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.gz")
	if err := os.WriteFile(bad, []byte{0x1f, 0x8b, 0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(bad); err == nil {
		t.Error("expected error for truncated gzip header")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		head []byte
		want string
	}{
		{[]byte{0x1f, 0x8b, 0x08, 0x00}, Gzip},
		{[]byte{0x28, 0xb5, 0x2f, 0xfd}, Zstd},
		{[]byte("1. A"), Plain},
		{nil, Plain},
	}
	for _, tt := range tests {
		if got := Detect(tt.head); got != tt.want {
			t.Errorf("Detect(%x) = %s, want %s", tt.head, got, tt.want)
		}
	}
}

func TestLineReaderTooLong(t *testing.T) {
	long := strings.Repeat("x", MaxLineSize+1)
	lr := NewLineReader(strings.NewReader("1. ok\n" + long + "\n2. never"))
	got := slices.Collect(lr.All())
	if len(got) != 1 {
		t.Errorf("expected one line before the failure, got %d", len(got))
	}
	if !errors.Is(lr.Err(), bufio.ErrTooLong) {
		t.Errorf("expected ErrTooLong, got %v", lr.Err())
	}
}

func TestLineReaderEarlyStop(t *testing.T) {
	lr := NewLineReader(strings.NewReader("a\nb\nc\n"))
	for line := range lr.All() {
		if line == "b" {
			break
		}
	}
	if lr.Err() != nil {
		t.Errorf("unexpected error: %v", lr.Err())
	}
}
