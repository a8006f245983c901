package main

import (
	"github.com/aretw0/stepwise/internal/cli"
	"github.com/aretw0/stepwise/pkg/catalog"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List catalog problems with your progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		difficulty, _ := cmd.Flags().GetString("difficulty")
		category, _ := cmd.Flags().GetString("category")
		playable, _ := cmd.Flags().GetBool("playable")

		return withApp(cmd, func(app *cli.App) error {
			list := app.Catalog.List(catalog.Filter{
				Difficulty:   catalog.Difficulty(difficulty),
				Category:     category,
				Visualizable: playable,
			})
			prog, err := app.Tracker.Load(cmd.Context(), app.Config.Profile)
			if err != nil {
				app.Logger.Warn("Progress unavailable", "profile", app.Config.Profile, "error", err)
				prog = nil
			}
			return cli.PrintProblems(cmd.OutOrStdout(), list, prog)
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("difficulty", "", "Filter by difficulty (easy, medium, hard)")
	listCmd.Flags().String("category", "", "Filter by category, e.g. linked-list")
	listCmd.Flags().Bool("playable", false, "Only problems that can be played")
}
