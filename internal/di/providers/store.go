package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/listenupapp/mangamatch/internal/candidatecache"
	"github.com/listenupapp/mangamatch/internal/config"
	"github.com/listenupapp/mangamatch/internal/logger"
	"github.com/listenupapp/mangamatch/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the persisted cache store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := store.Open(cfg.Store.Path, log.Logger, store.Options{InMemory: cfg.Store.InMemory})
	if err != nil {
		return nil, err
	}

	log.Info("Cache store opened", "path", cfg.Store.Path, "in_memory", cfg.Store.InMemory)

	return &StoreHandle{Store: db}, nil
}

// CandidateCacheHandle wraps the candidate cache and persists it on shutdown.
type CandidateCacheHandle struct {
	*candidatecache.Cache
	// Loaded is the outcome of the startup sync.
	Loaded candidatecache.MergeStats
}

// Shutdown implements do.Shutdownable.
func (h *CandidateCacheHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Persist(ctx)
}

// ProvideCandidateCache provides the candidate cache, synced from the store.
func ProvideCandidateCache(i do.Injector) (*CandidateCacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	cache := candidatecache.New(storeHandle.Store,
		log.WithComponent("candidatecache").Logger,
		candidatecache.WithTTL(cfg.Cache.TTL),
	)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	stats := cache.Sync(ctx)

	return &CandidateCacheHandle{Cache: cache, Loaded: stats}, nil
}
