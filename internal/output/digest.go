package output

import (
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Digest algorithms.
const (
	DigestXXH3    = "xxh3" // default
	DigestBlake2b = "blake2b"
)

// ErrUnknownDigest is returned for an unsupported digest algorithm.
var ErrUnknownDigest = errors.New("unknown digest algorithm")

// Digest passes writes through to an underlying writer while hashing them,
// so a run can report a fingerprint of exactly what it wrote.
type Digest struct {
	w io.Writer
	h hash.Hash
}

// NewDigest wraps w. An empty algorithm selects xxh3.
func NewDigest(w io.Writer, alg string) (*Digest, error) {
	var h hash.Hash
	switch alg {
	case "", DigestXXH3:
		h = xxh3.New()
	case DigestBlake2b:
		// 8 bytes, the same width as xxh3
		b, err := blake2b.New(8, nil)
		if err != nil {
			return nil, err
		}
		h = b
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDigest, alg)
	}
	return &Digest{w: w, h: h}, nil
}

func (d *Digest) Write(p []byte) (int, error) {
	n, err := d.w.Write(p)
	d.h.Write(p[:n])
	return n, err
}

// Sum returns the hex digest of everything written so far.
func (d *Digest) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}
