// Package config provides configuration management for the sync service.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file, with defaults declared as struct tags next to each
// subsystem's Config type.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL connection details
//   - Provider: remote show-data API credentials and endpoints
//   - Archive: S3/MinIO credentials for raw-snapshot archival
//   - Monitor: cycle concurrency and deadline
//   - Notify: webhook delivery settings
//   - Schedule: daily sync tuning
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
