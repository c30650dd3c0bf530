package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"statdemo/internal/config"
	"statdemo/internal/container"
)

func main() {
	// .env is optional; the environment wins either way
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var c *container.Container

	rootCmd := &cobra.Command{
		Use:           "statdemo",
		Short:         "Classroom statistics demos: Bayes posterior and t-test vs Mann-Whitney",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c, err = container.New(cfg, nil)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c == nil {
				return nil
			}
			return c.Shutdown(cmd.Context())
		},
	}

	deps := func() *container.Container { return c }

	rootCmd.AddCommand(
		newBayesCmd(deps),
		newScenariosCmd(deps),
		newCompareCmd(deps),
		newAnalyzeCmd(deps),
		newExportCmd(deps),
	)
	return rootCmd
}
