package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harborstats/ukproj/internal/export"
)

var (
	detailVariant string
	detailGeog    string
	detailYears   string
	detailAges    string
	detailGenders string
	detailFormat  string
)

var detailCmd = &cobra.Command{
	Use:   "detail",
	Short: "Print the observations matching a variant and selection",
	Example: `  ukproj detail --variant ppp --geog ew --years 2020
  ukproj detail --variant hhh --geog uk --years 2016:2051 --ages 0:18
  ukproj detail --variant ppl --geog en,sc --format csv > out.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		geogs, err := parseGeogs(detailGeog)
		if err != nil {
			return err
		}
		opts, err := queryOptions(detailYears, detailAges, detailGenders)
		if err != nil {
			return err
		}
		engine, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		table, err := engine.Detail(cmd.Context(), detailVariant, geogs, opts)
		if err != nil {
			return err
		}
		switch detailFormat {
		case "table":
			printTable(table)
		case "csv":
			return export.CSV(os.Stdout, table)
		default:
			return fmt.Errorf("unknown format %q (want table or csv)", detailFormat)
		}
		return nil
	},
}

func init() {
	detailCmd.Flags().StringVar(&detailVariant, "variant", "", "projection variant code (see 'ukproj variants')")
	detailCmd.Flags().StringVar(&detailGeog, "geog", "", "geographies: ew, gb, uk or a list like en,sc")
	detailCmd.Flags().StringVar(&detailYears, "years", "", "years, e.g. 2020,2030 or 2016:2051 (default: all but the final year)")
	detailCmd.Flags().StringVar(&detailAges, "ages", "", "ages, e.g. 65,66 or 0:18 (default: 0-90)")
	detailCmd.Flags().StringVar(&detailGenders, "genders", "", "genders: 1 (male), 2 (female) or 1,2 (default)")
	detailCmd.Flags().StringVar(&detailFormat, "format", "table", "output format: table or csv")
	_ = detailCmd.MarkFlagRequired("variant")
	rootCmd.AddCommand(detailCmd)
}
