package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/immense/internal/cli"
	"github.com/aretw0/immense/pkg/scene"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <scene>",
	Short: "Check a scene for errors",
	Long:  `Parses and validates a scene document or Lua script, then evaluates it once and reports the mesh count.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := cli.Validate(args[0], logger)
		if errs := scene.ValidationErrors(err); len(errs) > 0 {
			for _, e := range errs {
				cmd.PrintErrf("  ✗ %v\n", e)
			}
			return fmt.Errorf("validation failed: %d error(s)", len(errs))
		}
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		if len(res.Unreachable) > 0 {
			cmd.PrintErrf("  ! unreachable rules: %s\n", strings.Join(res.Unreachable, ", "))
		}
		cmd.Printf("Scene is valid! ✅ (%d meshes)\n", res.Meshes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
