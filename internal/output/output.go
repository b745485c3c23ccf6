// Package output renders the final store collection as a JSON document.
package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/JakeFAU/store-locations/internal/hash/sha256"
	"github.com/JakeFAU/store-locations/internal/storage/local"
	"github.com/JakeFAU/store-locations/internal/store"
)

const contentType = "application/json"

// WriteJSON writes records as a pretty-printed JSON array. A nil slice is written as [].
func WriteJSON(w io.Writer, records []store.Record) error {
	if records == nil {
		records = []store.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode stores: %w", err)
	}
	return nil
}

// Written describes a document persisted by WriteFile.
type Written struct {
	URI      string
	Bytes    int64
	Checksum string
}

// WriteFile writes the JSON document to path, creating parent directories as
// needed.
func WriteFile(ctx context.Context, path string, records []store.Record) (Written, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Written{}, fmt.Errorf("resolve output path: %w", err)
	}
	blobs, err := local.New(local.Config{BaseDir: filepath.Dir(abs)})
	if err != nil {
		return Written{}, fmt.Errorf("open output dir: %w", err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, records); err != nil {
		return Written{}, err
	}
	body := sha256.NewReader(&buf)
	uri, err := blobs.PutObject(ctx, filepath.Base(abs), contentType, body)
	if err != nil {
		return Written{}, fmt.Errorf("write output: %w", err)
	}
	return Written{URI: uri, Bytes: body.Len(), Checksum: body.String()}, nil
}
