package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"show-sync/core/archive"
	"show-sync/core/config"
	"show-sync/core/database"
	"show-sync/core/logger"
	"show-sync/core/provider"
	"show-sync/feature/monitor"
	"show-sync/feature/notify"
	"show-sync/feature/registry"
	"show-sync/feature/schedule"
	"show-sync/feature/scheduleview"
)

// application bundles everything the commands share: configuration, logger,
// database, provider client, and the wired features.
type application struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	farmID string

	scheduleFeature *schedule.Feature
	monitorFeature  *monitor.Feature
	notifyFeature   *notify.Feature
	viewFeature     *scheduleview.Feature
}

// initApplication loads configuration and wires the full service graph.
func initApplication(ctx context.Context) (*application, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(
		&registry.Farm{}, &registry.Horse{}, &registry.Rider{},
		&registry.Ring{}, &registry.ShowClass{},
		&schedule.Show{}, &schedule.Entry{},
		&notify.NotificationLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	client := provider.NewHTTPClient(cfg.Provider)

	// Snapshot archiving is optional; the monitor runs fine without it.
	var arc *archive.Archive
	if cfg.Archive.Enabled {
		store, err := archive.NewClient(cfg.Archive)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive client: %w", err)
		}
		arc = archive.New(store, cfg.Archive, logg)
		if err := arc.EnsureBucket(ctx); err != nil {
			logg.Warn("Archive bucket unavailable, archiving disabled", zap.Error(err))
			arc = nil
		}
	}

	resolver := registry.NewResolver(db, logg)
	farmID, err := resolver.EnsureFarm(ctx, cfg.FarmName, cfg.Provider.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure farm: %w", err)
	}
	logg = logg.With(zap.String("farm", cfg.FarmName))

	notifyFeature := notify.NewFeature(db, cfg.Notify, farmID, logg)

	return &application{
		cfg:    cfg,
		logger: logg,
		db:     db,
		farmID: farmID,

		scheduleFeature: schedule.NewFeature(db, client, resolver, cfg.Schedule, farmID, logg),
		monitorFeature: monitor.NewFeature(db, client, arc,
			notifyFeature.Service(), cfg.Monitor, farmID, logg),
		notifyFeature: notifyFeature,
		viewFeature:   scheduleview.NewFeature(db, farmID, logg),
	}, nil
}
