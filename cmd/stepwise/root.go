package main

import (
	"fmt"
	"os"

	"github.com/aretw0/stepwise/internal/cli"
	"github.com/aretw0/stepwise/internal/config"
	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stepwise",
	Short: "Stepwise replays algorithms one step at a time",
	Long: `Stepwise turns classic algorithm problems into step-by-step traces you can
play, pause and scrub through in the terminal, over HTTP or from an MCP client.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(cmd.OutOrStdout())
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("profile", "", "Learner profile progress is recorded under")
	rootCmd.PersistentFlags().String("store", "", "Progress store backend (memory, file, redis)")
}

// loadApp reads the configuration, applies flag overrides and builds the
// shared components. The caller must Close the returned App.
func loadApp(cmd *cobra.Command) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("profile"); v != "" {
		cfg.Profile = v
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.Store.Backend = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	app, err := cli.NewApp(cfg, logging.New(level))
	if err != nil {
		return nil, fmt.Errorf("error initializing stepwise: %w", err)
	}
	return app, nil
}

// withApp runs fn with a freshly loaded App and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(app *cli.App) error) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			app.Logger.Warn("Failed to close progress store", "error", err)
		}
	}()
	return fn(app)
}

// inputFlags registers the flags selecting the algorithm input.
func inputFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("test-case", "t", -1, "Index of a preset input (wins over --input)")
	cmd.Flags().StringArrayP("input", "i", nil, "Input field as field=value, e.g. --input nums=2,7,11,15")
}

func readInput(cmd *cobra.Command) (cli.InputOptions, error) {
	tc, _ := cmd.Flags().GetInt("test-case")
	pairs, _ := cmd.Flags().GetStringArray("input")
	values, err := cli.ParseValues(pairs)
	if err != nil {
		return cli.InputOptions{}, err
	}
	return cli.InputOptions{TestCase: tc, Values: values}, nil
}
