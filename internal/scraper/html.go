package scraper

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// newDocument parses body leniently. Malformed markup still yields a document.
func newDocument(body []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		// html.Parse only fails on reader errors.
		return goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return doc
}

// textParts returns the trimmed, non-empty text nodes under sel in document order.
func textParts(sel *goquery.Selection) []string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return parts
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if s := strings.TrimSpace(n.Data); s != "" {
			*parts = append(*parts, s)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// compactText joins trimmed text nodes with no separator. Used for label/value spans
// where inline children split a single word or code.
func compactText(sel *goquery.Selection) string {
	return strings.Join(textParts(sel), "")
}

// spacedText joins trimmed text nodes with single spaces and collapses inner whitespace.
func spacedText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(strings.Join(textParts(sel), " ")), " ")
}

// parseBase parses a base URL for link resolution. An invalid base resolves nothing.
func parseBase(raw string) *url.URL {
	base, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return base
}

// resolveURL resolves href against base. Without a base, href is returned as written.
func resolveURL(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if base == nil {
		return ref.String(), true
	}
	return base.ResolveReference(ref).String(), true
}

// headingLevel returns 1-6 for h1-h6 and 0 for anything else.
func headingLevel(sel *goquery.Selection) int {
	name := goquery.NodeName(sel)
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 0
}
