package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var (
	aggBy      string
	aggVariant string
	aggGeog    string
	aggYears   string
	aggAges    string
	aggGenders string
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Sum observation values grouped by the given fields",
	Long: `Sum observation values grouped by the fields named in --by. Grouping
always includes PROJECTED_YEAR_NAME: summing across projection years is not
meaningful for this dataset, so the year field is added (with a warning) when
omitted.`,
	Example: `  ukproj aggregate --by GEOGRAPHY_CODE --variant hhh --geog ew --years 2016:2051
  ukproj aggregate --by GENDER,PROJECTED_YEAR_NAME --variant ppp --geog uk --years 2020`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := strings.Split(aggBy, ",")
		for i := range fields {
			fields[i] = strings.ToUpper(strings.TrimSpace(fields[i]))
		}
		geogs, err := parseGeogs(aggGeog)
		if err != nil {
			return err
		}
		opts, err := queryOptions(aggYears, aggAges, aggGenders)
		if err != nil {
			return err
		}
		engine, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		rows, err := engine.Aggregate(cmd.Context(), fields, aggVariant, geogs, opts)
		if err != nil {
			return err
		}
		printGrouped(rows)
		return nil
	},
}

func init() {
	aggregateCmd.Flags().StringVar(&aggBy, "by", "", "grouping fields, e.g. GEOGRAPHY_CODE or GENDER,C_AGE")
	aggregateCmd.Flags().StringVar(&aggVariant, "variant", "", "projection variant code")
	aggregateCmd.Flags().StringVar(&aggGeog, "geog", "", "geographies: ew, gb, uk or a list like en,sc")
	aggregateCmd.Flags().StringVar(&aggYears, "years", "", "years, e.g. 2020,2030 or 2016:2051")
	aggregateCmd.Flags().StringVar(&aggAges, "ages", "", "ages, e.g. 65,66 or 0:18 (default: 0-90)")
	aggregateCmd.Flags().StringVar(&aggGenders, "genders", "", "genders (default: 1,2)")
	_ = aggregateCmd.MarkFlagRequired("by")
	_ = aggregateCmd.MarkFlagRequired("variant")
	rootCmd.AddCommand(aggregateCmd)
}
