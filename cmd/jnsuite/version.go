package main

import (
	"fmt"
	"strings"

	"github.com/javanetict/jnsuite"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of jnsuite",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jnsuite version %s\n", strings.TrimSpace(jnsuite.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
