// Package sha256 computes the checksum reported for written store documents.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
)

// Digest returns the hex SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Reader wraps r so every byte read through it is hashed.
type Reader struct {
	r io.Reader
	h hash.Hash
	n int64
}

// NewReader returns a hashing reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, h: sha256.New()}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		_, _ = r.h.Write(p[:n])
		r.n += int64(n)
	}
	return n, err //nolint:wrapcheck // io.EOF must pass through unchanged.
}

// Sum returns the hex digest of everything read so far.
func (r *Reader) Sum() string {
	return hex.EncodeToString(r.h.Sum(nil))
}

// Len reports how many bytes have been read.
func (r *Reader) Len() int64 {
	return r.n
}

// String formats the digest the way it is printed in run summaries.
func (r *Reader) String() string {
	return fmt.Sprintf("sha256:%s", r.Sum())
}
