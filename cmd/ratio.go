package cmd

import (
	"github.com/spf13/cobra"
)

var (
	ratioVariant string
	ratioGeog    string
	ratioYears   string
	ratioAges    string
	ratioGenders string
	ratioRefYear int
	ratioYear    int
)

var ratioCmd = &cobra.Command{
	Use:   "ratio",
	Short: "Ratio computations over the projection tables",
}

var ratioYearCmd = &cobra.Command{
	Use:     "year",
	Short:   "Ratio of one projection year to a reference year within a variant",
	Example: `  ukproj ratio year --variant ppp --geog ew --ref 2016 --year 2050`,
	RunE: func(cmd *cobra.Command, args []string) error {
		geogs, err := parseGeogs(ratioGeog)
		if err != nil {
			return err
		}
		opts, err := queryOptions("", ratioAges, ratioGenders)
		if err != nil {
			return err
		}
		engine, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		table, err := engine.YearRatio(cmd.Context(), ratioVariant, geogs, ratioRefYear, ratioYear, opts)
		if err != nil {
			return err
		}
		printTable(table)
		return nil
	},
}

var ratioVariantCmd = &cobra.Command{
	Use:     "variant",
	Short:   "Ratio of a variant to the principal projection",
	Example: `  ukproj ratio variant --variant hhh --geog uk --years 2016:2051`,
	RunE: func(cmd *cobra.Command, args []string) error {
		geogs, err := parseGeogs(ratioGeog)
		if err != nil {
			return err
		}
		opts, err := queryOptions(ratioYears, ratioAges, ratioGenders)
		if err != nil {
			return err
		}
		engine, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		table, err := engine.VariantRatio(cmd.Context(), ratioVariant, geogs, opts)
		if err != nil {
			return err
		}
		printTable(table)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{ratioYearCmd, ratioVariantCmd} {
		c.Flags().StringVar(&ratioVariant, "variant", "", "projection variant code")
		c.Flags().StringVar(&ratioGeog, "geog", "", "geographies: ew, gb, uk or a list like en,sc")
		c.Flags().StringVar(&ratioAges, "ages", "", "ages, e.g. 65,66 or 0:18 (default: 0-90)")
		c.Flags().StringVar(&ratioGenders, "genders", "", "genders (default: 1,2)")
		_ = c.MarkFlagRequired("variant")
	}
	ratioYearCmd.Flags().IntVar(&ratioRefYear, "ref", 0, "reference (denominator) year")
	ratioYearCmd.Flags().IntVar(&ratioYear, "year", 0, "numerator year")
	_ = ratioYearCmd.MarkFlagRequired("ref")
	_ = ratioYearCmd.MarkFlagRequired("year")
	ratioVariantCmd.Flags().StringVar(&ratioYears, "years", "", "years, e.g. 2020,2030 or 2016:2051")

	ratioCmd.AddCommand(ratioYearCmd, ratioVariantCmd)
	rootCmd.AddCommand(ratioCmd)
}
