package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harborstats/ukproj/internal/export"
	"github.com/harborstats/ukproj/internal/utils"
)

var (
	exportVariant string
	exportGeog    string
	exportYears   string
	exportAges    string
	exportGenders string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a selection to a CSV or XLSX file",
	Example: `  ukproj export --variant hhh --geog uk --years 2016:2051 --out high.xlsx
  ukproj export --variant ppp --geog ew --out principal.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOut == "" {
			return fmt.Errorf("--out is required")
		}
		geogs, err := parseGeogs(exportGeog)
		if err != nil {
			return err
		}
		opts, err := queryOptions(exportYears, exportAges, exportGenders)
		if err != nil {
			return err
		}
		engine, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		table, err := engine.Detail(cmd.Context(), exportVariant, geogs, opts)
		if err != nil {
			return err
		}

		switch {
		case strings.HasSuffix(strings.ToLower(exportOut), ".xlsx"):
			data, err := export.XLSX(table)
			if err != nil {
				return fmt.Errorf("render xlsx: %w", err)
			}
			if err := utils.SafeWriteFile(exportOut, data); err != nil {
				return err
			}
		case strings.HasSuffix(strings.ToLower(exportOut), ".csv"):
			f, err := os.Create(exportOut)
			if err != nil {
				return err
			}
			if err := export.CSV(f, table); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported output %q (want .csv or .xlsx)", exportOut)
		}
		fmt.Printf("wrote %d observations to %s\n", len(table), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportVariant, "variant", "", "projection variant code")
	exportCmd.Flags().StringVar(&exportGeog, "geog", "", "geographies: ew, gb, uk or a list like en,sc")
	exportCmd.Flags().StringVar(&exportYears, "years", "", "years, e.g. 2020,2030 or 2016:2051")
	exportCmd.Flags().StringVar(&exportAges, "ages", "", "ages (default: 0-90)")
	exportCmd.Flags().StringVar(&exportGenders, "genders", "", "genders (default: 1,2)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file, .csv or .xlsx")
	_ = exportCmd.MarkFlagRequired("variant")
	rootCmd.AddCommand(exportCmd)
}
