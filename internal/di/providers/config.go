// Package providers contains dependency injection providers for the matching tools.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/mangamatch/internal/config"
	"github.com/listenupapp/mangamatch/internal/logger"
)

// ProvideConfig provides configuration that the host loaded from its
// command line.
func ProvideConfig(cfg *config.Config) func(do.Injector) (*config.Config, error) {
	return func(do.Injector) (*config.Config, error) {
		return cfg, nil
	}
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Format:      cfg.Logger.Format,
		AddSource:   cfg.App.Environment == "development" && cfg.Logger.Level == "debug",
		Environment: cfg.App.Environment,
	})

	log.Debug("configuration loaded",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"config_file", cfg.ConfigFile,
		"store_path", cfg.Store.Path,
		"workers", cfg.Matching.Workers,
		"weights", cfg.Similarity.Fingerprint(),
	)

	return log, nil
}
