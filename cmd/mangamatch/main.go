// Package main provides the mangamatch command: match a reading list against
// a local catalogue file.
//
//	mangamatch [flags] <reading-list.json> <catalogue.json>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/listenupapp/mangamatch/internal/config"
	"github.com/listenupapp/mangamatch/internal/di"
	domainerrors "github.com/listenupapp/mangamatch/internal/errors"
	"github.com/listenupapp/mangamatch/internal/logger"
	"github.com/listenupapp/mangamatch/internal/migrate"
)

const usage = "usage: mangamatch [flags] <reading-list.json> <catalogue.json>"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, rest, err := config.Load("mangamatch", args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, usage)
			return err
		}
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return err
	}
	if len(rest) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		return domainerrors.Validation("expected a reading list and a catalogue")
	}

	entries, err := migrate.LoadEntriesFile(rest[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load reading list: %v\n", err)
		return err
	}
	records, err := migrate.LoadCatalogueFile(rest[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalogue: %v\n", err)
		return err
	}

	injector := di.NewContainer(cfg, migrate.NewStaticSource(records))
	if err := di.Bootstrap(injector); err != nil {
		_ = injector.Shutdown()
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return err
	}

	log := do.MustInvoke[*logger.Logger](injector)
	defer func() {
		// Persists the candidate cache, then closes the store.
		if err := injector.Shutdown(); err != nil {
			log.Error("Shutdown error", "error", err)
		}
	}()

	svc := do.MustInvoke[*migrate.Service](injector)
	results, err := svc.Run(ctx, entries)
	if err != nil {
		log.Error("Migration aborted", "error", err)
		return err
	}

	if cfg.App.Output == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Results []migrate.Result `json:"results"`
			Summary migrate.Summary  `json:"summary"`
		}{results, migrate.Summarize(results)})
	}

	fmt.Fprintln(out, renderResults(results))
	fmt.Fprintln(out, renderSummary(migrate.Summarize(results)))
	return nil
}

func exitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return domainerrors.ExitUsage
	}
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return domainErr.ExitCode()
	}
	return domainerrors.ExitFailure
}
