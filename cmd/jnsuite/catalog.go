package main

import (
	"fmt"
	"os"

	"github.com/javanetict/jnsuite/internal/presentation/graph"
	"github.com/javanetict/jnsuite/pkg/catalog"
	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate intent catalogs",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a catalog file, or the active catalog when no file is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			c   *domain.Catalog
			err error
		)
		if len(args) == 1 {
			data, readErr := os.ReadFile(args[0])
			if readErr != nil {
				return fmt.Errorf("failed to read catalog: %w", readErr)
			}
			c, err = catalog.Parse(data)
		} else {
			c, err = activeCatalog(cmd)
		}
		if err != nil {
			return err
		}

		warnings, err := catalog.Validate(c)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, w := range warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		fmt.Fprintf(out, "catalog %q (version %s) is valid: %d intents\n", c.Name, c.Version, c.Len())
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active catalog as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeCatalog(cmd)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(map[string]any{
			"name":    c.Name,
			"version": c.Version,
			"intents": catalog.Encode(c),
		})
		if err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var catalogGraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the active catalog as a Mermaid flowchart",
	Long:  `Draws intents and their followups. With --session, highlights the intents a conversation went through.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")

		app, cleanup, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		c, err := app.Engine.Inspect(cmd.Context())
		if err != nil {
			return err
		}
		var overlay *graph.GraphOverlay
		if sessionID != "" {
			msgs, err := app.Deps.History.History(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("failed to load session history: %w", err)
			}
			overlay = graph.OverlayFromHistory(msgs)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(c, overlay))
		return err
	},
}

func activeCatalog(cmd *cobra.Command) (*domain.Catalog, error) {
	app, cleanup, err := bootstrap(cmd)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return app.Engine.Inspect(cmd.Context())
}

func init() {
	catalogGraphCmd.Flags().String("session", "", "Highlight the path of this session")
	catalogCmd.AddCommand(catalogValidateCmd, catalogShowCmd, catalogGraphCmd)
	rootCmd.AddCommand(catalogCmd)
}
