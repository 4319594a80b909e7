package main

import (
	"github.com/aretw0/immense/internal/cli"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <scene>",
	Short: "Summarize a scene",
	Long:  `Prints a markdown summary of a scene document: settings, rules and the mesh count of one evaluation.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Describe(args[0], cmd.OutOrStdout(), logger)
	},
}

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <scene>",
	Short: "Export the rule graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the rule references in a scene document.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Graph(args[0], cmd.OutOrStdout())
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.obj>",
	Short: "Print counts and bounds of an OBJ file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Inspect(args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(inspectCmd)
}
