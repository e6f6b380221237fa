package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
)

// productHeading is the text of the heading that opens a detail page's file section.
const productHeading = "Product"

// Detail holds the fields recovered from one event's detail page.
// Every field is independently optional.
type Detail struct {
	Country     *string
	Requester   *string
	Escalation  *string
	GlideNumber *string
	Files       []domain.File
}

type detailField int

const (
	fieldCountry detailField = iota
	fieldRequester
	fieldEscalation
	fieldGlideNumber
)

// detailLabels is checked in order; a label matches when the page's label text
// contains it, since labels often carry extra decoration such as colons or icons.
var detailLabels = []struct {
	contains string
	field    detailField
}{
	{"Country", fieldCountry},
	{"Requester", fieldRequester},
	{"Escalation to the International Charter", fieldEscalation},
	{"GLIDE Number", fieldGlideNumber},
}

// ParseDetail extracts the report data list and the Product section from a detail page.
// It never fails: absent markup leaves the corresponding field nil or empty.
func ParseDetail(body []byte, pageURL string) Detail {
	doc := newDocument(body)
	d := Detail{Files: []domain.File{}}

	doc.Find("ul.report-data").First().Find("li").Each(func(_ int, li *goquery.Selection) {
		label := li.Find("span.data-title").First()
		value := li.Find("span.data-value").First()
		if label.Length() == 0 || value.Length() == 0 {
			return
		}
		d.assign(compactText(label), value)
	})

	base := parseBase(pageURL)
	for _, card := range productSectionCards(doc) {
		p := parseCard(card, base)
		name, link := domain.Deref(p.Title), domain.Deref(p.DownloadURL)
		if name == "" || link == "" {
			continue
		}
		d.Files = append(d.Files, domain.File{
			Name:     name,
			URL:      link,
			FileType: p.FileType,
		})
	}

	return d
}

func (d *Detail) assign(label string, value *goquery.Selection) {
	for _, l := range detailLabels {
		if !strings.Contains(label, l.contains) {
			continue
		}
		switch l.field {
		case fieldCountry:
			d.Country = domain.Ptr(compactText(value))
		case fieldRequester:
			d.Requester = domain.Ptr(compactText(value))
		case fieldEscalation:
			d.Escalation = domain.Ptr(compactText(value))
		case fieldGlideNumber:
			if a := value.Find("a").First(); a.Length() > 0 {
				d.GlideNumber = domain.Ptr(compactText(a))
			} else {
				d.GlideNumber = domain.Ptr(compactText(value))
			}
		}
		return
	}
}

// productSectionCards returns the cards that follow the Product heading in document
// order, stopping at the next heading of equal or higher rank. The heading may itself sit
// in a card panel. Once the section is open, headings inside cards that start after the
// Product heading are card titles and neither close the section nor count as cards.
func productSectionCards(doc *goquery.Document) []*goquery.Selection {
	var (
		cards   []*goquery.Selection
		opening *html.Node
		rank    int
	)

	doc.Find("h1, h2, h3, h4, h5, h6, " + detailCardSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		level := headingLevel(s)
		if opening == nil {
			if level > 0 && compactText(s) == productHeading {
				opening, rank = s.Get(0), level
			}
			return true
		}
		if level == 0 {
			cards = append(cards, s)
			return true
		}
		if card := s.Closest(detailCardSelector); card.Length() > 0 && !card.Contains(opening) {
			return true
		}
		return level > rank
	})

	return cards
}
