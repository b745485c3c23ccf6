// Package sitemap reads a local sitemap document and selects the store pages it lists.
package sitemap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
)

// DefaultStoreMarker identifies store-detail pages by their locale path segment.
const DefaultStoreMarker = "ampol.com.au/en/"

// locExpr matches every <loc> element regardless of the namespace prefix in use.
const locExpr = "//*[local-name()='loc']"

// ErrParse means the document is not well-formed sitemap XML.
var ErrParse = errors.New("parse sitemap")

// ExtractStoreURLs returns, in document order, the <loc> values of the sitemap
// at path that contain marker. A missing file yields an error wrapping
// fs.ErrNotExist; malformed XML yields an error wrapping ErrParse.
func ExtractStoreURLs(path, marker string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return []string{}, fmt.Errorf("open sitemap: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	return Parse(f, marker)
}

// Parse is ExtractStoreURLs over an already opened document.
func Parse(r io.Reader, marker string) ([]string, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return []string{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if xmlquery.FindOne(doc, "/*") == nil {
		return []string{}, fmt.Errorf("%w: no root element", ErrParse)
	}

	urls := []string{}
	for _, node := range xmlquery.Find(doc, locExpr) {
		loc := strings.TrimSpace(node.InnerText())
		if strings.Contains(loc, marker) {
			urls = append(urls, loc)
		}
	}
	return urls, nil
}
