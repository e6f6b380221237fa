package integration_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const siteIndex = `<html><body>
<div class="accordion">
  <a name="2024"></a>
  <h3 class="acd-title">2024</h3>
  <span class="acd-content"><ul>
    <li><a href="2024/article20240101JPN.html">2024-01-01: Earthquake in Japan on 1 January 2024</a></li>
    <li><a href="2024/article20240110MYS.html">2024-01-10: Flood in Malaysia on 9 January 2024</a></li>
    <li><a href="news.html">Website maintenance</a></li>
  </ul></span>
  <a name="2023"></a>
  <h3 class="acd-title">2023</h3>
  <span class="acd-content"><ul>
    <li><a href="2023/article20231115PHL.html">2023-11-15: Tropical Cyclone in Philippines on 14 November 2023</a></li>
  </ul></span>
</div>
</body></html>`

const siteDetailJPN = `<html><body>
<ul class="report-data">
  <li><span class="data-title">Country/Region</span><span class="data-value">Japan</span></li>
  <li><span class="data-title">Requester</span><span class="data-value">Cabinet Office</span></li>
  <li><span class="data-title">Escalation to the International Charter</span><span class="data-value">Yes</span></li>
  <li><span class="data-title">GLIDE Number</span><span class="data-value"><a href="#">EQ-2024-000001-JPN</a></span></li>
</ul>
<h2>Product</h2>
<div class="card"><h3>Damage map</h3><a class="btn-download-new" href="files/damage.pdf">Download</a></div>
</body></html>`

const siteDetailPHL = `<html><body>
<ul class="report-data">
  <li><span class="data-title">Country</span><span class="data-value">Philippines</span></li>
</ul>
</body></html>`

const siteProducts = `<html><body>
<div class="col card">
  <div class="card-date">2024-01-02</div>
  <h3>Damage map</h3>
  <a class="btn-download-new" href="files/damage.PDF?v=2">Download</a>
  <a class="btn-view" href="viewer.html">View</a>
</div>
</body></html>`

// newFakeSite serves a small copy of the EOR site. The Malaysia detail page fails.
func newFakeSite(t *testing.T) *httptest.Server {
	t.Helper()
	pages := map[string]string{
		"/EO/EmergencyObservation.html":     siteIndex,
		"/EO/2024/article20240101JPN.html":  siteDetailJPN,
		"/EO/2023/article20231115PHL.html":  siteDetailPHL,
		"/EO/2024/products20240101JPN.html": siteProducts,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "MYS.html") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv
}
