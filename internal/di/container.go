// Package di provides dependency injection configuration for the matching tools.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/mangamatch/internal/config"
	"github.com/listenupapp/mangamatch/internal/di/providers"
	"github.com/listenupapp/mangamatch/internal/logger"
	"github.com/listenupapp/mangamatch/internal/matching"
	"github.com/listenupapp/mangamatch/internal/migrate"
)

// NewContainer creates and configures the DI container with all providers.
// source feeds the migration service on cache misses.
func NewContainer(cfg *config.Config, source migrate.Source) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig(cfg))
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCandidateCache)

	// Matching layer
	do.Provide(injector, providers.ProvideTraceHook)
	do.Provide(injector, providers.ProvideScorer)
	do.Provide(injector, providers.ProvideEngine)

	// Migration
	do.ProvideValue(injector, source)
	do.Provide(injector, providers.ProvideMigrator)

	return injector
}

// Bootstrap initializes all services so startup failures surface before any
// work begins.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	log, err := do.Invoke[*logger.Logger](injector)
	if err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	cacheHandle, err := do.Invoke[*providers.CandidateCacheHandle](injector)
	if err != nil {
		return err
	}
	if _, err := do.Invoke[*matching.Engine](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*migrate.Service](injector); err != nil {
		return err
	}

	log.Info("Candidate cache ready",
		"entries", cacheHandle.Len(),
		"added", cacheHandle.Loaded.Added,
		"updated", cacheHandle.Loaded.Updated,
	)
	return nil
}
