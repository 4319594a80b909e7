package main

import (
	"context"

	"github.com/aretw0/immense/internal/cli"
	"github.com/aretw0/immense/pkg/ports"
	"github.com/spf13/cobra"
)

type storeCtx struct {
	ctx   context.Context
	store ports.SceneStore
}

// withStore opens the configured store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(storeCtx) error) error {
	ctx := cmd.Context()
	store, closeStore, err := cli.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("Failed to close store", "err", err)
		}
	}()
	return fn(storeCtx{ctx: ctx, store: store})
}
