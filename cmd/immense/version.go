package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/immense"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of immense",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "immense version %s\n", strings.TrimSpace(immense.Version))
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
