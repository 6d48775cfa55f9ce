// Package config provides application configuration management with support
// for command-line flags, environment variables, .env files and a TOML file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	domainerrors "github.com/listenupapp/mangamatch/internal/errors"
	"github.com/listenupapp/mangamatch/internal/similarity"
	"github.com/listenupapp/mangamatch/internal/validation"
)

// Config holds the application configuration.
type Config struct {
	App        AppConfig         `json:"app"`
	Logger     LoggerConfig      `json:"logger"`
	Store      StoreConfig       `json:"store"`
	Cache      CacheConfig       `json:"cache"`
	Matching   MatchingConfig    `json:"matching"`
	Similarity similarity.Config `json:"similarity"`

	// ConfigFile is the TOML file that was loaded, if any.
	ConfigFile string `json:"-"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `json:"env" validate:"required,oneof=development staging production"`
	Output      string `json:"output" validate:"required,oneof=table json"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string `json:"log_level" validate:"required,oneof=debug info warn error"`
	Format string `json:"log_format" validate:"omitempty,oneof=json pretty"` // empty picks by environment
	// Trace logs every scoring stage at debug level.
	Trace bool `json:"trace"`
}

// StoreConfig holds the persisted cache store configuration.
type StoreConfig struct {
	Path     string `json:"store_path" validate:"required_unless=InMemory true"`
	InMemory bool   `json:"in_memory"`
}

// CacheConfig holds candidate cache configuration.
type CacheConfig struct {
	TTL time.Duration `json:"cache_ttl" validate:"gt=0"`
}

// MatchingConfig holds migration and engine configuration.
type MatchingConfig struct {
	Workers         int     `json:"workers" validate:"gte=1,lte=64"`
	MinConfidence   float64 `json:"min_confidence" validate:"gte=0,lte=1"`
	MaxSuggestions  int     `json:"max_suggestions" validate:"gte=0,lte=50"`
	DisableEnhanced bool    `json:"disable_enhanced"`
	MemoSize        int     `json:"memo_size" validate:"gte=0"` // 0 uses the scorer default
}

// Default returns the built-in configuration. Store.Path is resolved by Load.
func Default() Config {
	return Config{
		App:    AppConfig{Environment: "development", Output: "table"},
		Logger: LoggerConfig{Level: "info"},
		Cache:  CacheConfig{TTL: 24 * time.Hour},
		Matching: MatchingConfig{
			Workers:        4,
			MinConfidence:  0.7,
			MaxSuggestions: 5,
		},
		Similarity: similarity.DefaultConfig(),
	}
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. TOML config file.
// 5. Default values (lowest priority).
//
// args excludes the program name. Unparsed positional arguments are returned.
func Load(name string, args []string) (*Config, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	env := fs.String("env", "", "Environment (development, staging, production)")
	output := fs.String("output", "", "Result format (table, json)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (json, pretty)")
	trace := fs.String("trace", "", "Log every scoring stage (default: false)")
	storePath := fs.String("store-path", "", "Path to the persisted cache store")
	inMemory := fs.String("in-memory", "", "Keep the cache store in memory (default: false)")
	cacheTTL := fs.String("cache-ttl", "", "Candidate cache entry lifetime (default: 24h)")
	workers := fs.String("workers", "", "Entries scored in parallel (default: 4)")
	minConfidence := fs.String("min-confidence", "", "Lowest score reported as a match (default: 0.7)")
	maxSuggestions := fs.String("max-suggestions", "", "Alternatives listed per entry (default: 5)")
	disableEnhanced := fs.String("disable-enhanced", "", "Skip the enhanced similarity stage (default: false)")
	memoSize := fs.String("memo-size", "", "Entries per similarity memo (default: 10000)")
	similarityDebug := fs.String("similarity-debug", "", "Disable composite memoization and trace every comparison")
	configFile := fs.String("config", "", "Path to a TOML config file")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, domainerrors.Validation("invalid arguments").WithCause(err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := Default()

	cfg.ConfigFile = getConfigValue(*configFile, "MANGAMATCH_CONFIG", "")
	if cfg.ConfigFile != "" {
		path, err := expandPath(cfg.ConfigFile, "")
		if err != nil {
			return nil, nil, fmt.Errorf("invalid config file path: %w", err)
		}
		fc, err := loadFile(path)
		if err != nil {
			return nil, nil, err
		}
		if err := fc.apply(&cfg); err != nil {
			return nil, nil, err
		}
		cfg.ConfigFile = path
	}

	cfg.App.Environment = getConfigValue(*env, "ENV", cfg.App.Environment)
	cfg.App.Output = getConfigValue(*output, "OUTPUT", cfg.App.Output)
	cfg.Logger.Level = getConfigValue(*logLevel, "LOG_LEVEL", cfg.Logger.Level)
	cfg.Logger.Format = getConfigValue(*logFormat, "LOG_FORMAT", cfg.Logger.Format)
	cfg.Logger.Trace = getBoolConfigValue(*trace, "LOG_TRACE", cfg.Logger.Trace)
	cfg.Store.Path = getConfigValue(*storePath, "STORE_PATH", cfg.Store.Path)
	cfg.Store.InMemory = getBoolConfigValue(*inMemory, "STORE_IN_MEMORY", cfg.Store.InMemory)
	cfg.Matching.DisableEnhanced = getBoolConfigValue(*disableEnhanced, "MATCH_DISABLE_ENHANCED", cfg.Matching.DisableEnhanced)
	cfg.Similarity.Debug = getBoolConfigValue(*similarityDebug, "SIMILARITY_DEBUG", cfg.Similarity.Debug)

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	collect(getDurationConfigValue(*cacheTTL, "CACHE_TTL", &cfg.Cache.TTL))
	collect(getIntConfigValue(*workers, "MATCH_WORKERS", &cfg.Matching.Workers))
	collect(getFloatConfigValue(*minConfidence, "MATCH_MIN_CONFIDENCE", &cfg.Matching.MinConfidence))
	collect(getIntConfigValue(*maxSuggestions, "MATCH_MAX_SUGGESTIONS", &cfg.Matching.MaxSuggestions))
	collect(getIntConfigValue(*memoSize, "MATCH_MEMO_SIZE", &cfg.Matching.MemoSize))
	overrides, err := similarityOverridesFromEnv()
	collect(err)
	if len(errs) > 0 {
		return nil, nil, domainerrors.Validation("invalid configuration value").WithCause(errors.Join(errs...))
	}
	cfg.Similarity = overrides.Apply(cfg.Similarity)

	if err := cfg.expandStorePath(); err != nil {
		return nil, nil, fmt.Errorf("invalid store path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return &cfg, fs.Args(), nil
}

// Validate checks that all config values are present and in range.
func (c *Config) Validate() error {
	return validation.New().Validate(c)
}

// expandStorePath defaults the store to ~/MangaMatch/cache.
func (c *Config) expandStorePath() error {
	if c.Store.InMemory && c.Store.Path == "" {
		return nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "MangaMatch", "cache")

	expanded, err := expandPath(c.Store.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Store.Path = expanded
	return nil
}
