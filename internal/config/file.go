package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	domainerrors "github.com/listenupapp/mangamatch/internal/errors"
	"github.com/listenupapp/mangamatch/internal/similarity"
	"github.com/listenupapp/mangamatch/internal/validation"
)

// fileConfig mirrors the TOML file. Absent keys stay nil and keep the
// defaults.
//
//	[matching]
//	workers = 8
//
//	[similarity]
//	exact = 0.4
type fileConfig struct {
	App struct {
		Environment *string `toml:"env"`
		Output      *string `toml:"output"`
	} `toml:"app"`
	Logger struct {
		Level  *string `toml:"level"`
		Format *string `toml:"format"`
		Trace  *bool   `toml:"trace"`
	} `toml:"logger"`
	Store struct {
		Path     *string `toml:"path"`
		InMemory *bool   `toml:"in_memory"`
	} `toml:"store"`
	Cache struct {
		TTL *string `toml:"ttl"`
	} `toml:"cache"`
	Matching struct {
		Workers         *int     `toml:"workers"`
		MinConfidence   *float64 `toml:"min_confidence"`
		MaxSuggestions  *int     `toml:"max_suggestions"`
		DisableEnhanced *bool    `toml:"disable_enhanced"`
		MemoSize        *int     `toml:"memo_size"`
	} `toml:"matching"`
	Similarity similarity.Overrides `toml:"similarity"`
}

// loadFile decodes a TOML config file. Unknown keys are rejected so typos in
// weight names do not silently fall back to defaults.
func loadFile(path string) (*fileConfig, error) {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var fc fileConfig
	decoder := toml.NewDecoder(file).DisallowUnknownFields()
	if err := decoder.Decode(&fc); err != nil {
		return nil, domainerrors.Validation("parse config " + path).WithCause(err)
	}

	// Pointer overrides are validated before they are applied.
	if err := validation.New().Validate(fc.Similarity); err != nil {
		return nil, err
	}
	return &fc, nil
}

func (fc *fileConfig) apply(cfg *Config) error {
	setString(&cfg.App.Environment, fc.App.Environment)
	setString(&cfg.App.Output, fc.App.Output)
	setString(&cfg.Logger.Level, fc.Logger.Level)
	setString(&cfg.Logger.Format, fc.Logger.Format)
	setValue(&cfg.Logger.Trace, fc.Logger.Trace)
	setString(&cfg.Store.Path, fc.Store.Path)
	setValue(&cfg.Store.InMemory, fc.Store.InMemory)
	setValue(&cfg.Matching.Workers, fc.Matching.Workers)
	setValue(&cfg.Matching.MinConfidence, fc.Matching.MinConfidence)
	setValue(&cfg.Matching.MaxSuggestions, fc.Matching.MaxSuggestions)
	setValue(&cfg.Matching.DisableEnhanced, fc.Matching.DisableEnhanced)
	setValue(&cfg.Matching.MemoSize, fc.Matching.MemoSize)

	if fc.Cache.TTL != nil {
		ttl, err := time.ParseDuration(*fc.Cache.TTL)
		if err != nil {
			return domainerrors.Validationf("cache.ttl: invalid duration %q", *fc.Cache.TTL)
		}
		cfg.Cache.TTL = ttl
	}

	cfg.Similarity = fc.Similarity.Apply(cfg.Similarity)
	return nil
}

func setValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}
