package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"show-sync/core/loader"
	"show-sync/core/logger"
	"show-sync/core/middleware/auth"
	"show-sync/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the show-sync server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := initApplication(context.Background())
		if err != nil {
			log.Fatalf("Failed to initialize application: %v", err)
		}
		logg := app.logger
		defer logg.Sync()

		fiberApp := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Register Features
		mgr := loader.NewManager()
		mgr.Register(app.scheduleFeature)
		mgr.Register(app.monitorFeature)
		mgr.Register(app.notifyFeature)
		mgr.Register(app.viewFeature)

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		fiberApp.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
		fiberApp.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		fiberApp.Use(auth.New(auth.Config{ApiKey: app.cfg.Server.ApiKey}))

		// 4. Load Features
		if err := mgr.LoadAll(fiberApp); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", app.cfg.Server.Port))
			if err := fiberApp.Listen(":" + app.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = fiberApp.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
