package domain

import "maps"

// countryToISO3 covers the Sentinel Asia member region. Several countries appear on
// detail pages under more than one spelling; every alias maps to the same code.
var countryToISO3 = map[string]string{
	// East Asia
	"Japan": "JPN", "China": "CHN", "South Korea": "KOR", "Korea": "KOR", "North Korea": "PRK",
	"Taiwan": "TWN", "Mongolia": "MNG",

	// South-East Asia
	"Philippines": "PHL", "Vietnam": "VNM", "Thailand": "THA", "Myanmar": "MMR", "Cambodia": "KHM",
	"Laos": "LAO", "Lao People's Democratic Republic (Laos)": "LAO", "Lao PDR": "LAO",
	"Malaysia": "MYS", "Singapore": "SGP", "Indonesia": "IDN", "Brunei": "BRN", "Timor-Leste": "TLS",

	// South Asia
	"India": "IND", "Pakistan": "PAK", "Bangladesh": "BGD", "Nepal": "NPL", "Sri Lanka": "LKA",
	"Bhutan": "BTN", "Maldives": "MDV",

	// Central Asia
	"Kazakhstan": "KAZ", "Uzbekistan": "UZB", "Kyrgyzstan": "KGZ", "Kyrgyz": "KGZ",
	"Tajikistan": "TJK", "Turkmenistan": "TKM",

	// West Asia
	"Afghanistan": "AFG", "Iran": "IRN", "Iraq": "IRQ", "Syria": "SYR", "Lebanon": "LBN",
	"Israel": "ISR", "Jordan": "JOR", "Turkey": "TUR", "Saudi Arabia": "SAU",
	"United Arab Emirates (UAE)": "ARE", "United Arab Emirates": "ARE", "UAE": "ARE",
	"Qatar": "QAT", "Bahrain": "BHR", "Kuwait": "KWT", "Oman": "OMN", "Yemen": "YEM", "Palestine": "PSE",

	// South Caucasus
	"Armenia": "ARM", "Azerbaijan": "AZE", "Georgia": "GEO",

	// Pacific
	"Australia": "AUS", "New Zealand": "NZL", "Papua New Guinea": "PNG", "Fiji": "FJI",
	"Solomon Islands": "SLB", "Solomon": "SLB",
	"Vanuatu": "VUT", "Samoa": "WSM", "Tonga": "TON", "Micronesia": "FSM", "Palau": "PLW",
	"Marshall Islands": "MHL", "Nauru": "NRU", "Kiribati": "KIR", "Tuvalu": "TUV",
}

// CountryResolver maps free-text country names to ISO 3166-1 alpha-3 codes.
// The table is fixed at construction and safe for concurrent use.
type CountryResolver struct {
	table map[string]string
}

// NewCountryResolver builds a resolver from the built-in table plus extra entries.
// Extra entries override built-in ones with the same name.
func NewCountryResolver(extra map[string]string) *CountryResolver {
	table := maps.Clone(countryToISO3)
	maps.Copy(table, extra)
	return &CountryResolver{table: table}
}

// Resolve returns the code for name. Matching is exact and case-sensitive.
func (r *CountryResolver) Resolve(name string) (string, bool) {
	code, ok := r.table[name]
	return code, ok
}

// Len reports the number of names in the table.
func (r *CountryResolver) Len() int {
	return len(r.table)
}
