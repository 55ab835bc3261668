package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/docquote/internal/pricing"
)

func newCompareCmd(g *globalFlags) *cobra.Command {
	var (
		inputsPath   string
		asJSON       bool
		allowInvalid bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compute the same inputs under every scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := g.catalog()
			if err != nil {
				return err
			}
			in, err := loadInputs(inputsPath)
			if err != nil {
				return err
			}
			if err := checkInputs(cmd.ErrOrStderr(), in, allowInvalid); err != nil {
				return err
			}

			results, err := pricing.Compare(in, catalog.All())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatComparison(results))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputsPath, "inputs", "i", "", "YAML inputs file (defaults are used for missing keys)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the results as JSON")
	cmd.Flags().BoolVar(&allowInvalid, "allow-invalid", false, "compute even when inputs fail validation")

	return cmd
}
