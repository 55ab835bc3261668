package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/docquote/internal/pricing"
)

func newValidateCmd() *cobra.Command {
	var inputsPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check inputs and print validation errors and warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInputs(inputsPath)
			if err != nil {
				return err
			}
			if err := checkInputs(cmd.OutOrStdout(), in, false); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "inputs are valid")
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputsPath, "inputs", "i", "", "YAML inputs file (defaults are used for missing keys)")
	return cmd
}

func newScenariosCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the pricing scenarios in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := g.catalog()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatScenarios(catalog.All()))
			for _, s := range catalog.All() {
				for _, w := range pricing.ScenarioWarnings(s) {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", s.Key, w)
				}
			}
			return nil
		},
	}
}
