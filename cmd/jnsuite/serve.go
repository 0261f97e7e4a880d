package main

import (
	"context"

	"github.com/javanetict/jnsuite/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Starts the chat, proposal, content and account API. Stops gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if port, _ := cmd.Flags().GetString("port"); port != "" {
			app.Config.Server.Port = port
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		if err := cli.Serve(ctx, app); err != nil {
			return err
		}
		if sig := ctx.Signal(); sig != nil {
			app.Logger.Info("received signal", "signal", sig.String())
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
