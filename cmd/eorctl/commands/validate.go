package commands

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
	"github.com/couchcryptid/sentinel-eor/internal/scraper"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [--events-file <path>]",
	Short: "Checks the stored events document for integrity problems.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		events, err := loadEvents(cmd.Context())
		if err != nil {
			return err
		}
		resolver, err := newResolver()
		if err != nil {
			return err
		}

		phases := validateEvents(events, resolver)
		if !report(cmd.OutOrStdout(), phases, len(events)) {
			return fmt.Errorf("validation of %s failed", cfg.EventsFile)
		}
		return nil
	},
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func validateEvents(events []domain.Event, resolver *domain.CountryResolver) []*phase {
	return []*phase{
		validateRequiredFields(events),
		validateIndexConsistency(events),
		validateCountryCodes(events, resolver),
		validateLinks(events),
		validateUniqueness(events),
	}
}

func validateRequiredFields(events []domain.Event) *phase {
	p := &phase{name: "Required fields"}
	for i, e := range events {
		if e.Name == "" {
			p.errorf("event %d: empty name", i)
		}
		if e.Description == "" {
			p.errorf("event %d (%s): empty description", i, e.Name)
		}
		if e.DisasterType == "" {
			p.errorf("event %d (%s): empty disaster_type", i, e.Name)
		}
		if _, err := time.Parse(time.DateOnly, e.OccurrenceDate); err != nil {
			p.errorf("event %d (%s): occurrence_date %q is not YYYY-MM-DD", i, e.Name, e.OccurrenceDate)
		}
		if e.Files == nil {
			p.errorf("event %d (%s): files is null, want a list", i, e.Name)
		}
	}
	return p
}

// validateIndexConsistency checks that the fields derived from the index line agree with it.
func validateIndexConsistency(events []domain.Event) *phase {
	p := &phase{name: "Index line consistency"}
	for i, e := range events {
		if !strings.HasPrefix(e.Description, e.OccurrenceDate+":") {
			p.errorf("event %d (%s): description does not start with occurrence date", i, e.Name)
		}
		if !strings.Contains(e.Description, e.Name) {
			p.errorf("event %d (%s): name not found in description", i, e.Name)
		}
		if want := scraper.DisasterType(e.Name); e.DisasterType != want {
			p.errorf("event %d (%s): disaster_type %q, want %q", i, e.Name, e.DisasterType, want)
		}
		if e.ActivationDate != nil && *e.ActivationDate != e.OccurrenceDate {
			p.errorf("event %d (%s): sa_activation_date %q differs from occurrence_date", i, e.Name, *e.ActivationDate)
		}
	}
	return p
}

func validateCountryCodes(events []domain.Event, resolver *domain.CountryResolver) *phase {
	p := &phase{name: "Country codes"}
	for i, e := range events {
		name := domain.Deref(e.Country)
		code, ok := resolver.Resolve(name)
		switch {
		case e.CountryISO3 == nil && ok:
			p.errorf("event %d (%s): country %q resolves to %s but country_iso3 is null", i, e.Name, name, code)
		case e.CountryISO3 != nil && !ok:
			p.errorf("event %d (%s): country_iso3 %s set for unknown country %q", i, e.Name, *e.CountryISO3, name)
		case e.CountryISO3 != nil && *e.CountryISO3 != code:
			p.errorf("event %d (%s): country_iso3 %s, want %s", i, e.Name, *e.CountryISO3, code)
		}
	}
	return p
}

func validateLinks(events []domain.Event) *phase {
	p := &phase{name: "Links"}
	for i, e := range events {
		if e.URL != nil && !isAbsoluteHTTP(*e.URL) {
			p.errorf("event %d (%s): url %q is not absolute", i, e.Name, *e.URL)
		}
		for j, f := range e.Files {
			if f.Name == "" {
				p.errorf("event %d (%s) file %d: empty name", i, e.Name, j)
			}
			if !isAbsoluteHTTP(f.URL) {
				p.errorf("event %d (%s) file %d: url %q is not absolute", i, e.Name, j, f.URL)
			}
			if ft := domain.Deref(f.FileType); ft != strings.ToLower(ft) {
				p.errorf("event %d (%s) file %d: file_type %q is not lower case", i, e.Name, j, ft)
			}
		}
	}
	return p
}

func validateUniqueness(events []domain.Event) *phase {
	p := &phase{name: "Unique detail pages"}
	seen := make(map[string]int)
	for i, e := range events {
		if e.URL == nil {
			continue
		}
		if first, ok := seen[*e.URL]; ok {
			p.errorf("events %d and %d share url %s", first, i, *e.URL)
			continue
		}
		seen[*e.URL] = i
	}
	return p
}

func isAbsoluteHTTP(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// report prints the phase summary and details. It returns true when every phase passed.
func report(w io.Writer, phases []*phase, total int) bool {
	fmt.Fprintln(w, "=== EOR Events Validation ===")
	fmt.Fprintln(w)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-32s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Events: %d\n", total)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
	} else {
		fmt.Fprintln(w, "\nValidation FAILED.")
	}
	return allPassed
}
