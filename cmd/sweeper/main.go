// Package main implements the orphan-cell sweeper. Value cells lose their
// base record only through out-of-band deletions (manual SQL, partial
// restores); the sweeper repairs that by deleting cells whose record no
// longer exists, in both storage models.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tradereg/internal/core/config"
	"tradereg/internal/infrastructure/storage/postgres"
	"tradereg/internal/infrastructure/storage/postgres/value_repo"
	"tradereg/pkg/logger"
)

func main() {
	var (
		configPath string
		timeout    time.Duration
		dryRun     bool
	)

	root := &cobra.Command{
		Use:   "sweeper",
		Short: "Delete orphaned value cells from both storage models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, timeout, dryRun)
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to optional yaml config file")
	root.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall run timeout")
	root.Flags().BoolVar(&dryRun, "dry-run", false, "count orphans without deleting")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, timeout time.Duration, dryRun bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.Development})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	legacyStore := value_repo.NewLegacyStore(txManager)
	typedStore := value_repo.NewTypedStore(txManager)

	if dryRun {
		legacy, err := legacyStore.CountOrphans(ctx)
		if err != nil {
			return fmt.Errorf("count legacy orphans: %w", err)
		}
		typed, err := typedStore.CountOrphans(ctx)
		if err != nil {
			return fmt.Errorf("count typed orphans: %w", err)
		}
		log.Infow("dry run", "legacy_orphans", legacy, "typed_orphans", typed)
		return nil
	}

	// Each model sweeps in its own transaction; a failure in one leaves the
	// other's repair committed.
	var legacy, typed int64
	err = txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		legacy, err = legacyStore.SweepOrphans(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("sweep legacy cells: %w", err)
	}

	err = txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		typed, err = typedStore.SweepOrphans(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("sweep typed cells: %w", err)
	}

	log.Infow("sweep finished", "legacy_cells_dropped", legacy, "typed_cells_dropped", typed)
	return nil
}
