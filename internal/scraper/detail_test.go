package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
)

const detailPage = `<html><body>
<h1>Earthquake in Japan</h1>
<ul class="report-data">
  <li><span class="data-title">Country/Region:</span><span class="data-value">Japan</span></li>
  <li><span class="data-title">Requester</span><span class="data-value"> Cabinet Office </span></li>
  <li><span class="data-title">Escalation to the International Charter</span><span class="data-value">Yes</span></li>
  <li><span class="data-title">GLIDE Number</span><span class="data-value"><a href="https://glidenumber.net/">EQ-2024-000001-JPN</a> (link)</span></li>
  <li><span class="data-title">Observation period</span><span class="data-value">1 week</span></li>
  <li><span class="data-title">Orphan label</span></li>
</ul>
<div class="card"><h3>Before the heading</h3><a class="btn-download-new" href="skip.pdf">Download</a></div>
<h2>Product</h2>
<div class="card">
  <h3>Damage map</h3>
  <a class="btn-download-new" href="files/damage.pdf">Download</a>
</div>
<div class="card">
  <h3>No link</h3>
</div>
<div class="card">
  <h3>Inundation <b>area</b></h3>
  <a class="btn-download-new" href="/EO/files/inundation.KMZ">Download</a>
</div>
<h2>Related links</h2>
<div class="card"><h3>After the section</h3><a class="btn-download-new" href="after.pdf">Download</a></div>
</body></html>`

func TestParseDetail(t *testing.T) {
	d := ParseDetail([]byte(detailPage), "https://sentinel-asia.org/EO/2024/article20240101JPN.html")

	assert.Equal(t, "Japan", domain.Deref(d.Country))
	assert.Equal(t, "Cabinet Office", domain.Deref(d.Requester))
	assert.Equal(t, "Yes", domain.Deref(d.Escalation))
	assert.Equal(t, "EQ-2024-000001-JPN", domain.Deref(d.GlideNumber))

	require.Len(t, d.Files, 2)
	assert.Equal(t, domain.File{
		Name:     "Damage map",
		URL:      "https://sentinel-asia.org/EO/2024/files/damage.pdf",
		FileType: domain.Ptr("pdf"),
	}, d.Files[0])
	assert.Equal(t, domain.File{
		Name:     "Inundation area",
		URL:      "https://sentinel-asia.org/EO/files/inundation.KMZ",
		FileType: domain.Ptr("kmz"),
	}, d.Files[1])
}

func TestParseDetail_EmptyPage(t *testing.T) {
	d := ParseDetail([]byte("<html><body></body></html>"), "https://sentinel-asia.org/EO/x.html")

	assert.Nil(t, d.Country)
	assert.Nil(t, d.Requester)
	assert.Nil(t, d.Escalation)
	assert.Nil(t, d.GlideNumber)
	assert.NotNil(t, d.Files)
	assert.Empty(t, d.Files)
}

func TestParseDetail_GlideWithoutLink(t *testing.T) {
	page := `<ul class="report-data">
<li><span class="data-title">GLIDE Number:</span><span class="data-value">FL-2023-000150-PHL</span></li>
</ul>`
	d := ParseDetail([]byte(page), "")
	assert.Equal(t, "FL-2023-000150-PHL", domain.Deref(d.GlideNumber))
}

func TestParseDetail_NestedSectionHeadingDoesNotClose(t *testing.T) {
	page := `<h2>Product</h2>
<div class="card"><h3>First</h3><a class="btn-download-new" href="a.pdf">Download</a></div>
<h4>Sub heading</h4>
<div class="card"><h3>Second</h3><a class="btn-download-new" href="b.tif">Download</a></div>
<h1>Next section</h1>
<div class="card"><h3>Third</h3><a class="btn-download-new" href="c.pdf">Download</a></div>`

	d := ParseDetail([]byte(page), "https://example.org/EO/page.html")
	require.Len(t, d.Files, 2)
	assert.Equal(t, "First", d.Files[0].Name)
	assert.Equal(t, "Second", d.Files[1].Name)
	assert.Equal(t, "tif", domain.Deref(d.Files[1].FileType))
}

func TestParseDetail_NoProductHeading(t *testing.T) {
	page := `<h2>Products and maps</h2>
<div class="card"><h3>Map</h3><a class="btn-download-new" href="a.pdf">Download</a></div>`
	d := ParseDetail([]byte(page), "https://example.org/")
	assert.Empty(t, d.Files)
}

func TestParseDetail_ProductHeadingInsidePanel(t *testing.T) {
	page := `<div class="card"><div class="card-body">
<h2>Product</h2>
<div class="row">
  <div class="col card"><h3>Damage map</h3><a class="btn-download-new" href="map.pdf">Download</a></div>
  <div class="col card"><h3>Flood extent</h3><a class="btn-download-new" href="extent.kmz">Download</a></div>
</div>
<h2>Contact</h2>
<div class="card"><h3>Office</h3><a class="btn-download-new" href="office.pdf">Download</a></div>
</div></div>`

	d := ParseDetail([]byte(page), "https://example.org/EO/page.html")
	require.Len(t, d.Files, 2)
	assert.Equal(t, "Damage map", d.Files[0].Name)
	assert.Equal(t, "https://example.org/EO/map.pdf", d.Files[0].URL)
	assert.Equal(t, "Flood extent", d.Files[1].Name)
	assert.Equal(t, "kmz", domain.Deref(d.Files[1].FileType))
}
