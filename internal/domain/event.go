package domain

// UnknownDisasterType is used when an entry title has no "<type> in <place>" prefix.
const UnknownDisasterType = "Unknown"

// File is one downloadable artifact attached to an Event.
type File struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	FileType    *string `json:"file_type"`
}

// Event is one emergency observation request.
// Optional fields are nil when absent so that absent and empty survive a JSON round trip.
type Event struct {
	Name                string            `json:"name"`
	Description         string            `json:"description"`
	DisasterType        string            `json:"disaster_type"`
	Country             *string           `json:"country"`
	CountryISO3         *string           `json:"country_iso3"`
	OccurrenceDate      string            `json:"occurrence_date"`
	ActivationDate      *string           `json:"sa_activation_date"`
	Requester           *string           `json:"requester"`
	EscalationToCharter *string           `json:"escalation_to_charter"`
	GlideNumber         *string           `json:"glide_number"`
	AdditionalMetadata  map[string]string `json:"additional_metadata"`
	Files               []File            `json:"files"`
	URL                 *string           `json:"url"`
}

// Product is a dated, titled card with optional download and view links.
// It is the transient result of parsing an arbitrary page and has no relation to any Event.
type Product struct {
	Date        *string `json:"date"`
	Title       *string `json:"title"`
	DownloadURL *string `json:"download_url"`
	ViewURL     *string `json:"view_url"`
	FileType    *string `json:"file_type"`
}

// Country pairs a display name with its resolved code. ISO3 is empty when unresolved.
type Country struct {
	Name string `json:"name"`
	ISO3 string `json:"iso3"`
}

// Metadata describes the dataset served by the read API.
type Metadata struct {
	Description string  `json:"description"`
	Licence     string  `json:"licence"`
	Methodology string  `json:"methodology"`
	Caveats     *string `json:"caveats"`
}

// DatasetMetadata returns the fixed description of the Sentinel Asia EOR dataset.
func DatasetMetadata() Metadata {
	return Metadata{
		Description: "Sentinel Asia is an international cooperation project that utilizes space technology to contribute to disaster management in the Asia-Pacific region.",
		Licence:     "The obtained files cannot be modified. When publishing the obtained files, please include credits as referenced in each file. All products are provided by Sentinel Asia and must be attributed accordingly.",
		Methodology: "Automatically collected and parsed from the official website.",
		Caveats:     Ptr("Some country names and disaster types may contain errors due to automatic extraction."),
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the pointed-to string, or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Countries derives the distinct countries observed across events, ordered by first
// occurrence. Events without a country name are ignored.
func Countries(events []Event) []Country {
	seen := make(map[string]struct{})
	countries := make([]Country, 0)
	for i := range events {
		name := Deref(events[i].Country)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		countries = append(countries, Country{Name: name, ISO3: Deref(events[i].CountryISO3)})
	}
	return countries
}
