package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/docquote/internal/logger"
	"github.com/Simplici0/docquote/internal/scenario"
)

var version = "dev"

type globalFlags struct {
	scenariosPath string
	logLevel      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "quote",
		Short:         "Estimate cost and price for a document digitization engagement",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logger.Options{Level: g.logLevel, Format: "console", Writer: cmd.ErrOrStderr(), Service: "quote"})
		},
	}
	root.PersistentFlags().StringVar(&g.scenariosPath, "scenarios", os.Getenv("SCENARIOS_PATH"), "path to a scenarios YAML file merged over the built-in catalog")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level (debug, info, warn, error, off)")

	root.AddCommand(
		newComputeCmd(g),
		newCompareCmd(g),
		newValidateCmd(),
		newScenariosCmd(g),
	)
	return root
}

func (g *globalFlags) catalog() (*scenario.Catalog, error) {
	if g.scenariosPath == "" {
		return scenario.Default(), nil
	}
	c, err := scenario.Load(g.scenariosPath)
	if err != nil {
		return nil, err
	}
	logger.Named("cli").Debug().Str("path", g.scenariosPath).Strs("scenarios", c.Keys()).Msg("scenario catalog loaded")
	return c, nil
}
