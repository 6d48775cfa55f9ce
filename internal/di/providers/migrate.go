package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/mangamatch/internal/config"
	"github.com/listenupapp/mangamatch/internal/logger"
	"github.com/listenupapp/mangamatch/internal/matching"
	"github.com/listenupapp/mangamatch/internal/migrate"
)

// ProvideMigrator provides the reading-list migration service. The host
// registers the migrate.Source before invoking it.
func ProvideMigrator(i do.Injector) (*migrate.Service, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	engine := do.MustInvoke[*matching.Engine](i)
	cacheHandle := do.MustInvoke[*CandidateCacheHandle](i)
	source := do.MustInvoke[migrate.Source](i)

	return migrate.NewService(engine, cacheHandle.Cache, source, log.WithComponent("migrate").Logger, migrate.Options{
		Workers:        cfg.Matching.Workers,
		MinConfidence:  cfg.Matching.MinConfidence,
		MaxSuggestions: cfg.Matching.MaxSuggestions,
	}), nil
}
