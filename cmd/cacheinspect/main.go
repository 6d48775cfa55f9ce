// Package main provides cacheinspect: list or clear the persisted candidate
// cache.
//
//	cacheinspect [flags]                  list entries (read-only)
//	cacheinspect [flags] clear <title>... remove entries for titles
//	cacheinspect [flags] clear-all        remove every entry
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/listenupapp/mangamatch/internal/candidatecache"
	"github.com/listenupapp/mangamatch/internal/config"
	domainerrors "github.com/listenupapp/mangamatch/internal/errors"
	"github.com/listenupapp/mangamatch/internal/logger"
	"github.com/listenupapp/mangamatch/internal/store"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "cacheinspect: %v\n", err)
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			os.Exit(domainErr.ExitCode())
		}
		os.Exit(domainerrors.ExitFailure)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, rest, err := config.Load("cacheinspect", args)
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Format:      cfg.Logger.Format,
		Environment: cfg.App.Environment,
	})

	command := "list"
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	switch command {
	case "list":
		return list(ctx, cfg, log.Logger, out)
	case "clear":
		if len(rest) == 0 {
			return domainerrors.Validation("clear needs at least one title")
		}
		return clearEntries(ctx, cfg, log.Logger, out, rest)
	case "clear-all":
		return clearEntries(ctx, cfg, log.Logger, out, nil)
	default:
		return domainerrors.Validationf("unknown command %q", command)
	}
}

// list reads both blobs without taking the write lock.
func list(ctx context.Context, cfg *config.Config, log *slog.Logger, out io.Writer) error {
	db, err := store.Open(cfg.Store.Path, log, store.Options{ReadOnly: true})
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeStoreUnavailable, "open cache store")
	}
	defer db.Close()

	cache := candidatecache.New(nil, log, candidatecache.WithTTL(cfg.Cache.TTL))
	for _, key := range []string{candidatecache.MangaCacheKey, candidatecache.SearchCacheKey} {
		snap, err := readSnapshot(ctx, db, key)
		if err != nil {
			log.Warn("skipping blob", "key", key, "error", err)
			continue
		}
		cache.Merge(snap)
	}

	blobs, err := db.Keys(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderEntries(cache))
	fmt.Fprintf(out, "Blobs: %s\n", strings.Join(blobs, ", "))
	return nil
}

func readSnapshot(ctx context.Context, db *store.Store, key string) (candidatecache.MangaSnapshot, error) {
	data, err := db.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return candidatecache.MangaSnapshot{}, nil
	}
	if err != nil {
		return nil, err
	}
	if key == candidatecache.SearchCacheKey {
		snap, err := candidatecache.ParseSearchSnapshot(data)
		if err != nil {
			return nil, err
		}
		return snap.MangaSnapshot(), nil
	}
	return candidatecache.ParseMangaSnapshot(data)
}

// clearEntries removes titles, or everything when titles is nil.
func clearEntries(ctx context.Context, cfg *config.Config, log *slog.Logger, out io.Writer, titles []string) error {
	db, err := store.New(cfg.Store.Path, log)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeStoreUnavailable, "open cache store")
	}
	defer db.Close()

	cache := candidatecache.New(db, log, candidatecache.WithTTL(cfg.Cache.TTL))
	cache.Sync(ctx)

	if titles == nil {
		n := cache.Len()
		cache.Clear(ctx)
		fmt.Fprintf(out, "Cleared %d entries\n", n)

		// Otherwise the next sync would merge the search results back in.
		found, err := db.Exists(ctx, candidatecache.SearchCacheKey)
		if err != nil {
			return err
		}
		if found {
			if err := db.Delete(ctx, candidatecache.SearchCacheKey); err != nil {
				return err
			}
			fmt.Fprintf(out, "Removed %s\n", candidatecache.SearchCacheKey)
		}
		return nil
	}

	result := cache.ClearTitles(ctx, titles)
	fmt.Fprintf(out, "Cleared %d entries, %d remaining\n", result.ClearedCount, result.Remaining)
	for _, title := range result.NotFound {
		fmt.Fprintf(out, "Not cached: %s\n", title)
	}
	return nil
}

func renderEntries(cache *candidatecache.Cache) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Key", "Candidates", "First", "Stored", "Valid"})

	snap := cache.Snapshot()
	valid := 0
	for _, key := range cache.Keys() {
		e := snap[key]
		first := ""
		if len(e.Candidates) > 0 {
			first = e.Candidates[0].DisplayTitle()
		}
		ok := cache.IsValid(e)
		if ok {
			valid++
		}
		tw.AppendRow(table.Row{
			key,
			strconv.Itoa(len(e.Candidates)),
			first,
			time.UnixMilli(e.Timestamp).Format(time.DateTime),
			strconv.FormatBool(ok),
		})
	}
	tw.AppendFooter(table.Row{"total", strconv.Itoa(len(snap)), "", "valid", strconv.Itoa(valid)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, WidthMax: 40},
	})

	return tw.Render()
}
