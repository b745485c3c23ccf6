package pipeline

import (
	"fmt"
	"io"
)

// WriteSummary prints the extracted and failed counts followed by every failed
// URL with its sitemap position.
func WriteSummary(w io.Writer, result Result) error {
	if _, err := fmt.Fprintf(w, "\nExtracted %d stores\n", len(result.Records)); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if len(result.Failures) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Failed to extract %d stores:\n", len(result.Failures)); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	for _, f := range result.Failures {
		if _, err := fmt.Fprintf(w, "  [%d] %s\n", f.Ordinal, f.URL); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}
