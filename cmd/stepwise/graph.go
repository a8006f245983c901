package main

import (
	"github.com/aretw0/stepwise/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <problem>",
	Short: "Export one step as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph LR) of a linked-list step, with the pointers of that step marked.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		step, _ := cmd.Flags().GetInt("step")
		in, err := readInput(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(app *cli.App) error {
			return cli.RunGraph(cmd.OutOrStdout(), app, args[0], in, step)
		})
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	inputFlags(graphCmd)
	graphCmd.Flags().Int("step", 0, "Step index (clamped into the trace)")
}
