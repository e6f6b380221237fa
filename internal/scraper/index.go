package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
)

const (
	yearAnchorSelector   = "a[name]"
	contentBlockSelector = "span.acd-content"
)

// Entry is one index list entry whose link text fits the entry grammar.
type Entry struct {
	Line   string // full trimmed link text
	Date   string // YYYY-MM-DD
	Title  string
	Clause string // trailing "on ..." clause
	Href   string // detail page link as written; empty when the link has none
}

// ParseIndex walks the chronological index and returns the entries that fit the entry
// grammar, in traversal order. Entries that do not fit are skipped.
func ParseIndex(body []byte) []Entry {
	entries, _ := parseIndex(newDocument(body))
	return entries
}

// parseIndex also reports how many list entries were skipped for not fitting the grammar.
func parseIndex(doc *goquery.Document) ([]Entry, int) {
	var (
		entries []Entry
		skipped int
	)

	markers := doc.Find(yearAnchorSelector + ", " + contentBlockSelector)
	markers.Each(func(i int, anchor *goquery.Selection) {
		if !anchor.Is(yearAnchorSelector) {
			return
		}
		block := nextContentBlock(markers, i)
		if block == nil {
			return
		}
		block.Find("ul").First().Find("li").Each(func(_ int, li *goquery.Selection) {
			a := li.Find("a").First()
			if a.Length() == 0 {
				return
			}
			entry, ok := parseEntry(a)
			if !ok {
				skipped++
				return
			}
			entries = append(entries, entry)
		})
	})

	return entries, skipped
}

// nextContentBlock returns the first content block after position i in document order.
func nextContentBlock(markers *goquery.Selection, i int) *goquery.Selection {
	for j := i + 1; j < markers.Length(); j++ {
		if s := markers.Eq(j); s.Is(contentBlockSelector) {
			return s
		}
	}
	return nil
}

func parseEntry(a *goquery.Selection) (Entry, bool) {
	line := strings.TrimSpace(a.Text())
	groups, ok := entryGrammar.Match(line)
	if !ok {
		return Entry{}, false
	}
	href, _ := a.Attr("href")
	return Entry{
		Line:   line,
		Date:   groups["date"],
		Title:  strings.TrimSpace(groups["title"]),
		Clause: groups["clause"],
		Href:   strings.TrimSpace(href),
	}, true
}

// DisasterType returns the leading "<type> in " phrase of an entry title, trimmed,
// or [domain.UnknownDisasterType] when the title has no such phrase.
func DisasterType(title string) string {
	groups, ok := disasterTypeGrammar.Match(title)
	if !ok {
		return domain.UnknownDisasterType
	}
	return strings.TrimSpace(groups["type"])
}
