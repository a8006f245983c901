package main

import (
	"github.com/aretw0/stepwise/internal/cli"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace <problem>",
	Short: "Dump a problem's trace as JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		in, err := readInput(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(app *cli.App) error {
			return cli.RunTrace(cmd.OutOrStdout(), app, args[0], in, format)
		})
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)
	inputFlags(traceCmd)
	traceCmd.Flags().StringP("format", "f", cli.FormatJSON, "Output format: json or yaml")
}
