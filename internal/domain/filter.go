package domain

import (
	"slices"
	"strings"
)

// EventFilter selects events by country code and inclusive occurrence-date bounds.
// Zero-valued fields do not filter.
type EventFilter struct {
	CountryCodes []string
	StartDate    string
	EndDate      string
}

// ParseCountryCodes splits a comma-separated list of ISO3 codes, trimming and
// upper-casing each one. An empty string means no country filter. Empty items are kept
// and match no event, so a list of only empty items selects nothing.
func ParseCountryCodes(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, part := range parts {
		parts[i] = strings.ToUpper(strings.TrimSpace(part))
	}
	return parts
}

// compactDate strips every "-" so YYYY-MM-DD compares as fixed-width YYYYMMDD.
func compactDate(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

// Match reports whether e passes every filter. An event without a resolved code never
// matches a country filter.
func (f EventFilter) Match(e Event) bool {
	if len(f.CountryCodes) > 0 {
		if e.CountryISO3 == nil || !slices.Contains(f.CountryCodes, *e.CountryISO3) {
			return false
		}
	}
	date := compactDate(e.OccurrenceDate)
	if f.StartDate != "" && date < compactDate(f.StartDate) {
		return false
	}
	if f.EndDate != "" && date > compactDate(f.EndDate) {
		return false
	}
	return true
}

// Apply returns the events matching f in their original order.
func (f EventFilter) Apply(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for i := range events {
		if f.Match(events[i]) {
			out = append(out, events[i])
		}
	}
	return out
}
