package main

import (
	"github.com/aretw0/stepwise/internal/cli"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <problem>",
	Short: "Play a problem's trace in the terminal",
	Long: `Opens the interactive player for a problem. Use space to play or pause,
the arrow keys to step and 1-9 to load a preset input.

With --headless the trace is autoplayed without waiting and every step is
printed as plain text, which suits scripts and CI logs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		headless, _ := cmd.Flags().GetBool("headless")
		showCode, _ := cmd.Flags().GetBool("code")
		in, err := readInput(cmd)
		if err != nil {
			return err
		}

		return withApp(cmd, func(app *cli.App) error {
			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()

			return cli.RunPlay(sigCtx, cmd.OutOrStdout(), app, args[0], cli.PlayOptions{
				InputOptions: in,
				Profile:      app.Config.Profile,
				Headless:     headless,
				ShowCode:     showCode,
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	inputFlags(playCmd)
	playCmd.Flags().Bool("headless", false, "Autoplay to the end and print every step")
	playCmd.Flags().Bool("code", false, "Show the solution code pane")
}
