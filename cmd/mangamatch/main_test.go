package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/mangamatch/internal/errors"
	"github.com/listenupapp/mangamatch/internal/migrate"
)

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	list := filepath.Join(dir, "list.json")
	catalogue := filepath.Join(dir, "catalogue.json")

	require.NoError(t, os.WriteFile(list, []byte(`[
		{"id": "1", "title": "Attack on Titan"},
		{"id": "2", "title": "Zzyzx Qwerty"}
	]`), 0o600))
	require.NoError(t, os.WriteFile(catalogue, []byte(`{"data": {"Page": {"media": [
		{"id": 16498, "title": {"romaji": "Shingeki no Kyojin", "english": "Attack on Titan"}, "format": "MANGA"},
		{"id": 20, "title": {"romaji": "Naruto"}, "format": "MANGA"}
	]}}}`), 0o600))
	return list, catalogue
}

func baseArgs(t *testing.T) []string {
	t.Setenv("HOME", t.TempDir())
	return []string{"-env-file", filepath.Join(t.TempDir(), "none.env"), "-in-memory", "true", "-log-level", "error"}
}

func TestRun_JSON(t *testing.T) {
	list, catalogue := writeFixtures(t)
	args := append(baseArgs(t), "-output", "json", list, catalogue)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), args, &out))

	var got struct {
		Results []migrate.Result `json:"results"`
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))

	require.Len(t, got.Results, 2)
	require.NotNil(t, got.Results[0].Match)
	assert.Equal(t, 16498, got.Results[0].Match.ID)
	assert.Nil(t, got.Results[1].Match)
	assert.Equal(t, 2, got.Summary.Total)
	assert.Contains(t, out.String(), `"confidence": "definitive"`)
}

func TestRun_Table(t *testing.T) {
	list, catalogue := writeFixtures(t)
	args := append(baseArgs(t), list, catalogue)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), args, &out))

	assert.Contains(t, out.String(), "Attack on Titan")
	assert.Contains(t, out.String(), "16498")
	assert.Contains(t, out.String(), "definitive")
	assert.Contains(t, out.String(), "unmatched")
}

func TestRun_Usage(t *testing.T) {
	err := run(context.Background(), append(baseArgs(t), "only-one.json"), &bytes.Buffer{})
	assert.Equal(t, domainerrors.ExitUsage, exitCode(err))

	err = run(context.Background(), []string{"-h"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Equal(t, domainerrors.ExitUsage, exitCode(err))
}

func TestRun_MissingFile(t *testing.T) {
	_, catalogue := writeFixtures(t)
	err := run(context.Background(), append(baseArgs(t), "missing.json", catalogue), &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, domainerrors.ExitFailure, exitCode(err))
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "-", formatScore(-1))
	assert.Equal(t, "0.850", formatScore(0.85))
}

func TestFormatSuggestions(t *testing.T) {
	got := formatSuggestions([]migrate.Suggestion{{Title: "Naruto", Score: 0.5}, {Title: "Boruto", Score: 0.41}})
	assert.Equal(t, "Naruto (0.50); Boruto (0.41)", got)
}
