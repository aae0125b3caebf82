// Command recycle-sweep permanently removes recycle bin records older than
// the retention window. It is meant to run from cron or a scheduled job.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"go-life-planner/internal/app"
	"go-life-planner/internal/config"
	"go-life-planner/internal/logger"
	"go-life-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		olderThan time.Duration
		ownerID   string
	)

	cmd := &cobra.Command{
		Use:   "recycle-sweep",
		Short: "Purge expired recycle bin records",
		Long: `Purge recycle bin records archived longer ago than the retention window.
The window defaults to RECYCLE_RETENTION. Without --owner every owner is swept.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadStore()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			slog.SetDefault(logger.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel))

			if !cmd.Flags().Changed("older-than") {
				olderThan = cfg.RecycleRetention
			}

			return sweep(cmd, cfg, ownerID, olderThan)
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "retention window, e.g. 720h (default RECYCLE_RETENTION)")
	cmd.Flags().StringVar(&ownerID, "owner", "", "only sweep this owner's records")

	return cmd
}

func sweep(cmd *cobra.Command, cfg *config.Config, ownerID string, olderThan time.Duration) error {
	ctx := cmd.Context()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	recycle := service.NewRecycleService(store.UnitOfWork, nil)
	count, err := recycle.PurgeOlderThan(ctx, ownerID, olderThan)
	if err != nil {
		return fmt.Errorf("purge: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "purged %d recycle items older than %s\n", count, olderThan)
	return nil
}
