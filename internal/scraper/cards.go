package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
)

const (
	// listingCardSelector matches cards on standalone product listing pages.
	listingCardSelector = "div.col.card"
	// detailCardSelector matches cards in a detail page's Product section.
	detailCardSelector = "div.card"

	cardDateSelector     = "div.card-date"
	cardTitleSelector    = "h3"
	cardDownloadSelector = "a.btn-download-new"
	cardViewSelector     = "a.btn-view"
)

// ParseCards extracts every product card in html, in document order. Relative links are
// resolved against baseURL. Missing sub-elements leave the matching field nil.
func ParseCards(body []byte, baseURL string) []domain.Product {
	doc := newDocument(body)
	base := parseBase(baseURL)

	products := make([]domain.Product, 0)
	doc.Find(listingCardSelector).Each(func(_ int, card *goquery.Selection) {
		products = append(products, parseCard(card, base))
	})
	return products
}

func parseCard(card *goquery.Selection, base *url.URL) domain.Product {
	var p domain.Product

	if date := card.Find(cardDateSelector).First(); date.Length() > 0 {
		p.Date = domain.Ptr(strings.TrimSpace(date.Text()))
	}
	if title := card.Find(cardTitleSelector).First(); title.Length() > 0 {
		p.Title = domain.Ptr(spacedText(title))
	}
	p.DownloadURL = linkURL(card.Find(cardDownloadSelector).First(), base)
	p.ViewURL = linkURL(card.Find(cardViewSelector).First(), base)
	if p.DownloadURL != nil {
		p.FileType = fileType(*p.DownloadURL)
	}
	return p
}

func linkURL(a *goquery.Selection, base *url.URL) *string {
	href, ok := a.Attr("href")
	if !ok {
		return nil
	}
	resolved, ok := resolveURL(base, href)
	if !ok {
		return nil
	}
	return &resolved
}

// fileType returns the lower-cased text after the last "." of u with any query string
// removed, e.g. ".../report.PDF?v=2" -> "pdf".
func fileType(u string) *string {
	i := strings.LastIndex(u, ".")
	if i < 0 {
		return nil
	}
	ext, _, _ := strings.Cut(u[i+1:], "?")
	return domain.Ptr(strings.ToLower(ext))
}
