package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
	"github.com/couchcryptid/sentinel-eor/internal/scraper"
)

func init() {
	rootCmd.AddCommand(productsCmd)
}

var productsCmd = &cobra.Command{
	Use:   "products <url>",
	Short: "Lists the product cards on any Sentinel Asia page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lister := scraper.NewProductLister(newFetcher(), cfg.ProductTimeout)
		products, err := lister.ListProducts(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Date", "Title", "Type", "Download", "View"})
		for _, p := range products {
			t.AppendRow(table.Row{
				domain.Deref(p.Date),
				domain.Deref(p.Title),
				domain.Deref(p.FileType),
				domain.Deref(p.DownloadURL),
				domain.Deref(p.ViewURL),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
