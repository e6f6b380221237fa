// Package domain models Sentinel Asia emergency observation request (EOR) data.
//
// # Data Source
//
// EOR records are published at https://sentinel-asia.org/EO/EmergencyObservation.html
// as a chronological index grouped by year. Each index entry links to a detail page
// carrying the requester, the charter escalation status, the GLIDE number, the affected
// country, and a "Product" section listing downloadable map products. The scraper in
// package scraper recovers an [Event] from each entry and its detail page.
//
// # Index Entry Convention
//
// Entry link text follows a fixed free-text template:
//
//	"<YYYY-MM-DD>: <title> on <clause>"  →  e.g. "2024-01-01: Earthquake in Japan on 1 January 2024"
//
// The title usually starts with the disaster type followed by " in ":
//
//	"Earthquake in Japan"  →  disaster type "Earthquake"
//
// Titles without that prefix get disaster type [UnknownDisasterType].
//
// # Country Codes
//
// Detail pages carry a free-text country name. It is resolved to an ISO 3166-1 alpha-3
// code by exact lookup in a [CountryResolver]. Unresolved names keep the name and leave the
// code absent; this is expected data, not an error.
//
// # Dates
//
// Occurrence dates use the canonical form YYYY-MM-DD. Range filters strip every "-" from both
// the record and the bound and compare the resulting fixed-width YYYYMMDD strings lexically.
package domain
