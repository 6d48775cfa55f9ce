package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/listenupapp/mangamatch/internal/similarity"
)

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is used as-is.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue sets *dst from flag or env var when either is present.
func getIntConfigValue(flagValue, envKey string, dst *int) error {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return nil
	}
	v, err := strconv.Atoi(strValue)
	if err != nil {
		return fmt.Errorf("%s: invalid integer %q", envKey, strValue)
	}
	*dst = v
	return nil
}

// getFloatConfigValue sets *dst from flag or env var when either is present.
func getFloatConfigValue(flagValue, envKey string, dst *float64) error {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return fmt.Errorf("%s: invalid number %q", envKey, strValue)
	}
	*dst = v
	return nil
}

// getDurationConfigValue sets *dst from flag or env var when either is present.
func getDurationConfigValue(flagValue, envKey string, dst *time.Duration) error {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return nil
	}
	v, err := time.ParseDuration(strValue)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q", envKey, strValue)
	}
	*dst = v
	return nil
}

// similarityOverridesFromEnv reads SIMILARITY_<FIELD> weight overrides.
func similarityOverridesFromEnv() (similarity.Overrides, error) {
	var o similarity.Overrides
	fields := []struct {
		key string
		dst **float64
	}{
		{"SIMILARITY_EXACT", &o.Exact},
		{"SIMILARITY_SUBSTRING", &o.Substring},
		{"SIMILARITY_WORD_ORDER", &o.WordOrder},
		{"SIMILARITY_CHARACTER", &o.Character},
		{"SIMILARITY_SEMANTIC", &o.Semantic},
		{"SIMILARITY_JARO_WINKLER", &o.JaroWinkler},
		{"SIMILARITY_NGRAM", &o.NGram},
		{"SIMILARITY_LENGTH_THRESHOLD", &o.LengthDifferenceThreshold},
	}
	for _, f := range fields {
		var v float64
		present := os.Getenv(f.key) != ""
		if err := getFloatConfigValue("", f.key, &v); err != nil {
			return o, err
		}
		if present {
			*f.dst = &v
		}
	}
	return o, nil
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
