package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
)

const listingPage = `<html><body>
<div class="row">
  <div class="col card">
    <div class="card-date"> 2024-01-02 </div>
    <h3>Damage <span>map</span>
      (Wajima)</h3>
    <a class="btn-download-new" href="files/damage.PDF?v=2">Download</a>
    <a class="btn-view" href="https://viewer.example.org/map/1">View</a>
  </div>
  <div class="col card">
    <h3>Flood extent</h3>
  </div>
  <div class="card">
    <h3>Not a listing card</h3>
  </div>
</div>
</body></html>`

func TestParseCards(t *testing.T) {
	products := ParseCards([]byte(listingPage), "https://sentinel-asia.org/EO/2024/article20240101JPN.html")
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, "2024-01-02", domain.Deref(first.Date))
	assert.Equal(t, "Damage map (Wajima)", domain.Deref(first.Title))
	assert.Equal(t, "https://sentinel-asia.org/EO/2024/files/damage.PDF?v=2", domain.Deref(first.DownloadURL))
	assert.Equal(t, "https://viewer.example.org/map/1", domain.Deref(first.ViewURL))
	assert.Equal(t, "pdf", domain.Deref(first.FileType))

	second := products[1]
	assert.Nil(t, second.Date)
	assert.Equal(t, "Flood extent", domain.Deref(second.Title))
	assert.Nil(t, second.DownloadURL)
	assert.Nil(t, second.ViewURL)
	assert.Nil(t, second.FileType)
}

func TestParseCards_NoCards(t *testing.T) {
	products := ParseCards([]byte("<html><body><p>nothing here</p></body></html>"), "https://example.org/")
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestParseCards_Malformed(t *testing.T) {
	products := ParseCards([]byte(`<div class="col card"><h3>Unclosed <a class="btn-download-new" href="a.zip">`), "https://example.org/list.html")
	require.Len(t, products, 1)
	assert.Equal(t, "https://example.org/a.zip", domain.Deref(products[0].DownloadURL))
	assert.Equal(t, "zip", domain.Deref(products[0].FileType))
}

func TestFileType(t *testing.T) {
	tests := []struct {
		url  string
		want *string
	}{
		{"https://example.org/report.PDF?v=2", domain.Ptr("pdf")},
		{"https://example.org/files/map.kmz", domain.Ptr("kmz")},
		{"https://example.org/archive.tar.gz", domain.Ptr("gz")},
		{"download", nil},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, fileType(tt.url))
		})
	}
}
