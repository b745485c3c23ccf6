// Package uuid generates the run identifiers attached to log lines.
package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates UUID v7 strings, which sort by creation time.
type Generator struct{}

// New creates a new Generator.
func New() *Generator {
	return &Generator{}
}

// NewID returns a UUID7 string.
func (Generator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid7: %w", err)
	}
	return id.String(), nil
}

// MustRunID returns a fresh run ID, or "unknown" if the random source fails.
func (g Generator) MustRunID() string {
	id, err := g.NewID()
	if err != nil {
		return "unknown"
	}
	return id
}
