package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Simplici0/docquote/internal/logger"
	"github.com/Simplici0/docquote/internal/pricing"
	"github.com/Simplici0/docquote/internal/scenario"
)

func newComputeCmd(g *globalFlags) *cobra.Command {
	var (
		inputsPath   string
		scenarioKey  string
		asJSON       bool
		allowInvalid bool
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a full quote for one scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := g.catalog()
			if err != nil {
				return err
			}
			sc, err := catalog.Get(scenarioKey)
			if err != nil {
				return err
			}
			in, err := loadInputs(inputsPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := checkInputs(cmd.ErrOrStderr(), in, allowInvalid); err != nil {
				return err
			}
			for _, w := range pricing.ScenarioWarnings(sc) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}

			res := pricing.Compute(in, sc)
			logger.Named("cli").Debug().Str("scenario", sc.Key).Float64("total", res.TotalQuote.Price).Msg("quote computed")

			if asJSON {
				if !res.IsFinite() {
					return fmt.Errorf("scenario %s: %w", sc.Key, pricing.ErrNonFinite)
				}
				return writeJSON(out, res)
			}
			fmt.Fprint(out, formatQuote(sc, in, res))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputsPath, "inputs", "i", "", "YAML inputs file (defaults are used for missing keys)")
	cmd.Flags().StringVarP(&scenarioKey, "scenario", "s", scenario.Standard, "scenario key")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVar(&allowInvalid, "allow-invalid", false, "compute even when inputs fail validation")

	return cmd
}

// checkInputs prints validation errors and warnings. It fails on invalid
// inputs unless allowInvalid is set.
func checkInputs(w io.Writer, in pricing.Inputs, allowInvalid bool) error {
	v := pricing.Validate(in)
	for _, e := range v.Errors {
		fmt.Fprintf(w, "error: %s\n", e)
	}
	for _, msg := range pricing.Warnings(in) {
		fmt.Fprintf(w, "warning: %s\n", msg)
	}
	if !v.IsValid && !allowInvalid {
		return fmt.Errorf("inputs failed validation with %d error(s)", len(v.Errors))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
