package main

import (
	"context"

	"github.com/javanetict/jnsuite/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant in the terminal",
	Long:  `Runs an interactive conversation against the configured catalog and session store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		sessionID, _ := cmd.Flags().GetString("session")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		return cli.RunChat(ctx, app.Engine, cli.TerminalChatOptions(sessionID))
	},
}

func init() {
	chatCmd.Flags().StringP("session", "s", "", "Resume an existing session ID")
	rootCmd.AddCommand(chatCmd)
}
