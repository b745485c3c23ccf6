// Package sha256 includes tests for the document checksum helpers.
package sha256

import (
	"io"
	"strings"
	"testing"
)

const helloDigest = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

// TestDigestDeterministic ensures repeated hashing yields the same digest.
func TestDigestDeterministic(t *testing.T) {
	t.Parallel()

	got := Digest([]byte("hello world"))
	if got != helloDigest {
		t.Fatalf("expected %s, got %s", helloDigest, got)
	}
	if again := Digest([]byte("hello world")); again != got {
		t.Fatalf("expected deterministic hash, got %s vs %s", got, again)
	}
}

// TestReaderHashesWhatPassesThrough verifies the streaming digest matches Digest.
func TestReaderHashesWhatPassesThrough(t *testing.T) {
	t.Parallel()

	r := NewReader(strings.NewReader("hello world"))
	body, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(body) != "hello world" {
		t.Fatalf("unexpected body %q", body)
	}
	if r.Sum() != helloDigest {
		t.Fatalf("expected %s, got %s", helloDigest, r.Sum())
	}
	if r.Len() != int64(len("hello world")) {
		t.Fatalf("expected %d bytes, got %d", len("hello world"), r.Len())
	}
	if r.String() != "sha256:"+helloDigest {
		t.Fatalf("unexpected String() %q", r.String())
	}
}
