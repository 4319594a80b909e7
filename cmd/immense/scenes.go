package main

import (
	"github.com/aretw0/immense/internal/cli"
	"github.com/aretw0/immense/pkg/scene"
	"github.com/spf13/cobra"
)

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "Manage scenes in the configured store",
}

var scenesPutCmd = &cobra.Command{
	Use:   "put <file> [name]",
	Short: "Validate and store a scene document",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 1 {
			name = args[1]
		}
		return withStore(cmd, func(s storeCtx) error {
			stored, err := cli.PutScene(s.ctx, s.store, name, args[0])
			if err != nil {
				return err
			}
			cmd.Printf("Stored %q\n", stored)
			return nil
		})
	},
}

var scenesGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print a stored scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return withStore(cmd, func(s storeCtx) error {
			return cli.GetScene(s.ctx, s.store, args[0], scene.Format(format), cmd.OutOrStdout())
		})
	},
}

var scenesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored scene names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s storeCtx) error {
			return cli.ListScenes(s.ctx, s.store, cmd.OutOrStdout())
		})
	},
}

var scenesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s storeCtx) error {
			return s.store.Delete(s.ctx, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(scenesCmd)
	scenesCmd.AddCommand(scenesPutCmd, scenesGetCmd, scenesListCmd, scenesDeleteCmd)

	scenesGetCmd.Flags().String("format", "yaml", "Output format: yaml or json")
}
