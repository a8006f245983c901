package main

import (
	"os"

	"github.com/aretw0/stepwise/internal/cli"
	"github.com/aretw0/stepwise/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var showCmd = &cobra.Command{
	Use:   "show <problem>",
	Short: "Describe a problem and its reference solution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")

		return withApp(cmd, func(app *cli.App) error {
			md := tui.PlainRenderer()
			if fd := int(os.Stdout.Fd()); !plain && term.IsTerminal(fd) {
				width, _, _ := term.GetSize(fd)
				md = tui.NewRenderer(width)
			}
			return cli.RunShow(cmd.OutOrStdout(), app, args[0], md)
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("plain", false, "Print raw markdown")
}
