package scraper

import "regexp"

// Grammar is an ordered set of alternative patterns with named capture groups.
// The first pattern that matches wins; new layouts are added as new alternatives.
type Grammar struct {
	patterns []*regexp.Regexp
}

// NewGrammar compiles the given patterns. It panics on an invalid pattern.
func NewGrammar(patterns ...string) Grammar {
	g := Grammar{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		g.patterns = append(g.patterns, regexp.MustCompile(p))
	}
	return g
}

// Match returns the named groups of the first matching alternative.
func (g Grammar) Match(text string) (map[string]string, bool) {
	for _, re := range g.patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		groups := make(map[string]string, len(m))
		for i, name := range re.SubexpNames() {
			if name != "" {
				groups[name] = m[i]
			}
		}
		return groups, true
	}
	return nil, false
}

var (
	// entryGrammar parses index link text, e.g.
	// "2024-01-01: Earthquake in Japan on 1 January 2024".
	// Separators accept Unicode space separators as well, since index markup uses &nbsp;.
	entryGrammar = NewGrammar(
		`^(?P<date>\d{4}-\d{2}-\d{2}):[\s\p{Zs}]*(?P<title>.+?)[\s\p{Zs}]+on[\s\p{Zs}]+(?P<clause>.+)`,
	)

	// disasterTypeGrammar takes the leading "<type> in " phrase of an entry title.
	disasterTypeGrammar = NewGrammar(
		`^(?P<type>[A-Za-z ]+) in `,
	)
)
