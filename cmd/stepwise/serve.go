package main

import (
	"github.com/aretw0/stepwise/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the HTTP API: the problem catalog, live playback sessions with a
Server-Sent Events stream, learner progress and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			port := app.Config.Server.Port
			if cmd.Flags().Changed("port") {
				port, _ = cmd.Flags().GetInt("port")
			}

			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()

			err := cli.RunServe(sigCtx, app, port)
			if sig := sigCtx.Signal(); sig != nil {
				app.Logger.Info("Stopped by signal", "signal", sig.String())
			}
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
