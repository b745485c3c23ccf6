package sitemap

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://www.ampol.com.au/en/nsw/sydney/ampol-foodary-b</loc></url>
  <url><loc>https://www.ampol.com.au/about-us</loc></url>
  <url>
    <loc>
      https://www.ampol.com.au/en/vic/melbourne/ampol-a
    </loc>
  </url>
  <url><loc>https://locations.ampol.com.au/en/qld/brisbane/ampol-c</loc></url>
</urlset>`

func TestParseKeepsDocumentOrderAndFilters(t *testing.T) {
	t.Parallel()

	urls, err := Parse(strings.NewReader(sampleSitemap), DefaultStoreMarker)
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://www.ampol.com.au/en/nsw/sydney/ampol-foodary-b",
		"https://www.ampol.com.au/en/vic/melbourne/ampol-a",
		"https://locations.ampol.com.au/en/qld/brisbane/ampol-c",
	}, urls)
}

func TestParseCustomMarker(t *testing.T) {
	t.Parallel()

	urls, err := Parse(strings.NewReader(sampleSitemap), "/about-us")
	require.NoError(t, err)
	require.Equal(t, []string{"https://www.ampol.com.au/about-us"}, urls)
}

func TestParsePrefixedNamespace(t *testing.T) {
	t.Parallel()

	doc := `<sm:urlset xmlns:sm="http://www.sitemaps.org/schemas/sitemap/0.9">
	  <sm:url><sm:loc>https://www.ampol.com.au/en/wa/perth/ampol-d</sm:loc></sm:url>
	</sm:urlset>`
	urls, err := Parse(strings.NewReader(doc), DefaultStoreMarker)
	require.NoError(t, err)
	require.Equal(t, []string{"https://www.ampol.com.au/en/wa/perth/ampol-d"}, urls)
}

func TestParseNoMatches(t *testing.T) {
	t.Parallel()

	urls, err := Parse(strings.NewReader(`<urlset><url><loc>https://example.com/</loc></url></urlset>`), DefaultStoreMarker)
	require.NoError(t, err)
	require.NotNil(t, urls)
	require.Empty(t, urls)
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{
		`<urlset><url><loc>https://www.ampol.com.au/en/x</loc></url>`,
		`this is not xml`,
		``,
	} {
		_, err := Parse(strings.NewReader(doc), DefaultStoreMarker)
		require.ErrorIs(t, err, ErrParse, "document %q", doc)
	}
}

func TestExtractStoreURLsFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sitemap.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSitemap), 0o600))

	urls, err := ExtractStoreURLs(path, DefaultStoreMarker)
	require.NoError(t, err)
	require.Len(t, urls, 3)
}

func TestExtractStoreURLsMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ExtractStoreURLs(filepath.Join(t.TempDir(), "absent.xml"), DefaultStoreMarker)
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.NotErrorIs(t, err, ErrParse)
}
