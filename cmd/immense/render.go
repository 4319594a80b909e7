package main

import (
	"os"
	"strings"

	"github.com/aretw0/immense"
	"github.com/aretw0/immense/internal/cli"
	"github.com/aretw0/immense/internal/presentation/tui"
	"github.com/aretw0/immense/pkg/observability"
	"github.com/spf13/cobra"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <scene.yaml|scene.json|scene.lua>",
	Short: "Render a scene to Wavefront OBJ",
	Long: `Compiles a scene document or Lua script and streams the resulting meshes
as Wavefront OBJ to a file or to stdout.

With --watch the scene is rendered again every time the file changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		names, _ := cmd.Flags().GetBool("names")
		watch, _ := cmd.Flags().GetBool("watch")
		force, _ := cmd.Flags().GetBool("force")
		precision, _ := cmd.Flags().GetInt("precision")

		opts := cli.RenderOptions{
			Path:      args[0],
			Output:    output,
			Names:     names,
			Precision: precision,
			Watch:     watch,
			Force:     force,
			Hooks:     observability.LogHooks(logger),
		}
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetInt64("seed")
			opts.Compile.Seed = &seed
		}
		if cmd.Flags().Changed("depth") {
			depth, _ := cmd.Flags().GetInt("depth")
			opts.Compile.Depth = &depth
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		if watch {
			tui.PrintBanner(os.Stderr, strings.TrimSpace(immense.Version))
		}
		return cli.HandleExecutionError(cli.Render(sigCtx, opts, logger))
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	renderCmd.Flags().Int64("seed", 0, "Override the scene seed for choose nodes")
	renderCmd.Flags().Int("depth", 0, "Override the scene recursion depth")
	renderCmd.Flags().Bool("names", false, "Write an object name before each mesh")
	renderCmd.Flags().Int("precision", 0, "Fixed decimals for coordinates (default shortest exact form)")
	renderCmd.Flags().BoolP("watch", "w", false, "Render again whenever the scene file changes")
	renderCmd.Flags().BoolP("force", "f", false, "Write OBJ to stdout even when it is a terminal")
}
