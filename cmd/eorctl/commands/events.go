package commands

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
)

var (
	eventsCountries string
	eventsStart     string
	eventsEnd       string
	eventsJSON      bool
)

func init() {
	eventsCmd.Flags().StringVar(&eventsCountries, "countries", "", "comma-separated ISO3 codes, e.g. JPN,PHL")
	eventsCmd.Flags().StringVar(&eventsStart, "start", "", "earliest occurrence date, inclusive (YYYY-MM-DD)")
	eventsCmd.Flags().StringVar(&eventsEnd, "end", "", "latest occurrence date, inclusive (YYYY-MM-DD)")
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "print the matching events as JSON")
	rootCmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events [--countries JPN,PHL] [--start YYYY-MM-DD] [--end YYYY-MM-DD] [--json]",
	Short: "Prints the stored events that match the filters.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		events, err := loadEvents(cmd.Context())
		if err != nil {
			return err
		}
		filter := domain.EventFilter{
			CountryCodes: domain.ParseCountryCodes(eventsCountries),
			StartDate:    eventsStart,
			EndDate:      eventsEnd,
		}
		matched := filter.Apply(events)

		if eventsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(matched)
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Date", "Event", "Type", "Country", "ISO3", "Files"})
		for _, e := range matched {
			t.AppendRow(table.Row{
				e.OccurrenceDate,
				e.Name,
				e.DisasterType,
				domain.Deref(e.Country),
				domain.Deref(e.CountryISO3),
				fileTypes(e.Files),
			})
		}
		t.AppendFooter(table.Row{"", "", "", "", "Total", len(matched)})
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}

// fileTypes summarizes attached files, e.g. "2 (pdf, kmz)".
func fileTypes(files []domain.File) string {
	if len(files) == 0 {
		return "0"
	}
	var types []string
	seen := make(map[string]bool)
	for _, f := range files {
		ft := domain.Deref(f.FileType)
		if ft == "" || seen[ft] {
			continue
		}
		seen[ft] = true
		types = append(types, ft)
	}
	if len(types) == 0 {
		return strconv.Itoa(len(files))
	}
	return strconv.Itoa(len(files)) + " (" + strings.Join(types, ", ") + ")"
}
