package main

import (
	"fmt"

	"github.com/aretw0/stepwise/internal/cli"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect and update learner progress",
	Long:  `Shows and edits the progress recorded for the current --profile.`,
}

var progressLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Summarise progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			prog, err := app.Tracker.Load(cmd.Context(), app.Config.Profile)
			if err != nil {
				return err
			}
			return cli.PrintProgress(cmd.OutOrStdout(), app.Config.Profile, prog, app.Catalog)
		})
	},
}

var progressDoneCmd = &cobra.Command{
	Use:   "done <problem>...",
	Short: "Mark problems as completed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		undo, _ := cmd.Flags().GetBool("undo")

		return withApp(cmd, func(app *cli.App) error {
			for _, key := range args {
				id, err := app.ProblemID(key)
				if err != nil {
					return err
				}
				if undo {
					err = app.Tracker.RemoveFromProgress(cmd.Context(), app.Config.Profile, id)
				} else {
					err = app.Tracker.MarkCompleted(cmd.Context(), app.Config.Profile, id)
				}
				if err != nil {
					return fmt.Errorf("failed to update '%s': %w", key, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated '%s'\n", key)
			}
			return nil
		})
	},
}

var progressFavCmd = &cobra.Command{
	Use:   "fav <problem>",
	Short: "Toggle a problem as favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			id, err := app.ProblemID(args[0])
			if err != nil {
				return err
			}
			fav, err := app.Tracker.ToggleFavorite(cmd.Context(), app.Config.Profile, id)
			if err != nil {
				return err
			}
			if fav {
				fmt.Fprintf(cmd.OutOrStdout(), "★ '%s' added to favorites\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "'%s' removed from favorites\n", args[0])
			}
			return nil
		})
	},
}

var progressResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear completed, started and favorite problems (settings are kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			if err := app.Tracker.ResetProgress(cmd.Context(), app.Config.Profile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Progress for '%s' reset\n", app.Config.Profile)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(progressCmd)
	progressCmd.AddCommand(progressLsCmd)
	progressCmd.AddCommand(progressDoneCmd)
	progressCmd.AddCommand(progressFavCmd)
	progressCmd.AddCommand(progressResetCmd)

	progressDoneCmd.Flags().Bool("undo", false, "Remove the problems from completed and in-progress instead")
}
