package cmd

import (
	"context"
	"fmt"

	"show-sync/feature/monitor"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cycleDate string

// cycleCmd runs one reconciliation cycle and one notification delivery pass.
var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run one reconciliation cycle",
	Long: `Reconciles every open class for the date against the provider's live
state, records detected changes, and delivers pending notifications.
Intended to run on a short cron interval during show hours.

Examples:
  # Reconcile today's open classes
  show-sync cycle

  # Reconcile a specific date
  show-sync cycle --date 2026-02-18`,
	RunE: runCycle,
}

func init() {
	cycleCmd.Flags().StringVar(&cycleDate, "date", "", "Schedule date (YYYY-MM-DD, defaults to today)")
	RootCmd.AddCommand(cycleCmd)
}

func runCycle(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := initApplication(ctx)
	if err != nil {
		return err
	}
	defer app.logger.Sync()

	report, err := app.monitorFeature.Runner().RunCycle(ctx, monitor.Params{
		FarmID: app.farmID,
		Date:   cycleDate,
	})
	if err != nil {
		return fmt.Errorf("reconciliation cycle failed: %w", err)
	}

	app.logger.Info("Cycle finished",
		zap.String("date", report.Date),
		zap.Int("selected", report.Selected),
		zap.Int("applied", report.Applied),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("changes", report.Changes))

	delivery, err := app.notifyFeature.Service().DeliverPending(ctx, app.farmID)
	if err != nil {
		return fmt.Errorf("notification delivery failed: %w", err)
	}
	app.logger.Info("Notification delivery finished",
		zap.Int("pending", delivery.Pending),
		zap.Int("delivered", delivery.Delivered),
		zap.Int("failed", delivery.Failed))
	return nil
}
