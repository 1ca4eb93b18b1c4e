package cmd

import (
	"context"
	"fmt"

	"show-sync/feature/schedule"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncDate string

// syncCmd runs one morning schedule sync and exits.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one schedule sync",
	Long: `Fetches the day's schedule and the farm's entries from the provider
and mirrors them into the local database. Intended to run once each morning,
before the monitoring cycles start.

Examples:
  # Sync today's schedule
  show-sync sync

  # Sync a specific date
  show-sync sync --date 2026-02-18`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncDate, "date", "", "Schedule date (YYYY-MM-DD, defaults to today)")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := initApplication(ctx)
	if err != nil {
		return err
	}
	defer app.logger.Sync()

	summary, err := app.scheduleFeature.Service().RunDailySync(ctx, schedule.SyncParams{
		FarmID: app.farmID,
		Date:   syncDate,
	})
	if err != nil {
		return fmt.Errorf("schedule sync failed: %w", err)
	}

	app.logger.Info("Schedule sync finished",
		zap.String("date", summary.Date),
		zap.String("show", summary.ShowName),
		zap.Int("classes", summary.ClassesFromAPI),
		zap.Int("entries", summary.EntriesFromAPI),
		zap.Int("rows_upserted", summary.EntriesUpserted),
		zap.Int("rings", summary.UniqueRingCount))
	if summary.FirstClass != nil {
		app.logger.Info("First class",
			zap.String("time", summary.FirstClass.Time),
			zap.String("ring", summary.FirstClass.RingName))
	}
	if summary.LastClass != nil {
		app.logger.Info("Last class",
			zap.String("time", summary.LastClass.Time),
			zap.String("ring", summary.LastClass.RingName))
	}
	return nil
}
