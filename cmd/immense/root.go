package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/immense/internal/config"
	"github.com/aretw0/immense/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    config.Config
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "immense",
	Short: "immense composes rules into 3D meshes",
	Long: `immense builds procedural 3D geometry from rule trees and streams it as
Wavefront OBJ. Scenes are YAML/JSON rule documents or Lua scripts.

Settings come from IMMENSE_* environment variables; flags override them.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (default from IMMENSE_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("store", "", "Scene store: memory, redis or sqlite (default from IMMENSE_STORE)")
}

// setup loads the configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		loaded.LogLevel = lvl
	}
	if store, _ := cmd.Flags().GetString("store"); store != "" {
		loaded.Store = store
	}
	if cmd.Flags().Lookup("addr") != nil && cmd.Flags().Changed("addr") {
		loaded.Addr, _ = cmd.Flags().GetString("addr")
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	logger = logging.New(cfg.Level())
	slog.SetDefault(logger)
	return nil
}
