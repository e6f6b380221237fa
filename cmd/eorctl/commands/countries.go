package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
)

func init() {
	rootCmd.AddCommand(countriesCmd)
}

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "Prints the distinct countries in the stored events.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		events, err := loadEvents(cmd.Context())
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Country", "ISO3"})
		for _, c := range domain.Countries(events) {
			t.AppendRow(table.Row{c.Name, c.ISO3})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
