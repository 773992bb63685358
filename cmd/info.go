package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborstats/ukproj/internal/npp"
)

var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "List the known projection variant codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, code := range npp.VariantCodes() {
			fmt.Printf("%s  %s\n", code, npp.Variants[code])
		}
		return nil
	},
}

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Show the projection year range",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("first projected year: %d\n", engine.MinYear())
		fmt.Printf("final projected year: %d\n", engine.MaxYear())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(variantsCmd, yearsCmd)
}
