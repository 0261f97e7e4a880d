package main

import (
	"fmt"

	"github.com/javanetict/jnsuite/internal/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the default features, clients and chatbot configuration",
	Long:  `Idempotently stores the marketing content and the built-in catalog as a chatbot configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		activate, _ := cmd.Flags().GetBool("activate")

		app, cleanup, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := seed.Run(cmd.Context(), app.DB, seed.Options{Activate: activate, Logger: app.Logger})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "features: %d\nclients: %d\ntestimonials: %d\n", res.Features, res.Clients, res.Testimonials)
		if res.Config != nil {
			fmt.Fprintf(out, "config: %s (active=%t)\n", res.Config.Name, res.Config.IsActive)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().Bool("activate", false, "Make the seeded chatbot configuration the active one")
	rootCmd.AddCommand(seedCmd)
}
