package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/mangamatch/internal/domain"
	domainerrors "github.com/listenupapp/mangamatch/internal/errors"
)

func TestLoadEntries(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"bare array", `[{"title": "Naruto"}, {"id": "x", "title": "Bleach", "progress": 12}]`, []string{"Naruto", "Bleach"}},
		{"wrapped", `{"entries": [{"title": "One Piece"}]}`, []string{"One Piece"}},
		{"empty", `[]`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := LoadEntries(strings.NewReader(tt.input))
			require.NoError(t, err)

			titles := make([]string, 0, len(entries))
			for _, e := range entries {
				titles = append(titles, e.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestLoadEntries_Invalid(t *testing.T) {
	_, err := LoadEntries(strings.NewReader(`[{"title": "Naruto"}, {"title": ""}]`))
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	var domainErr *domainerrors.Error
	require.True(t, domainerrors.As(err, &domainErr))
	assert.Contains(t, domainErr.Details, "entries[1].title")

	_, err = LoadEntries(strings.NewReader(`{not json`))
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = LoadEntries(strings.NewReader(`[{"title": "Naruto", "progress": -1}]`))
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestLoadCatalogue(t *testing.T) {
	bare := `[{"id": 1, "title": {"romaji": "Naruto"}, "format": "MANGA"}]`
	page := `{"data": {"Page": {"media": [{"id": 2, "title": {"english": "Bleach"}, "synonyms": ["BLEACH"]}]}}}`

	records, err := LoadCatalogue(strings.NewReader(bare))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.FormatManga, records[0].Format)

	records, err = LoadCatalogue(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"BLEACH"}, records[0].Synonyms)

	_, err = LoadCatalogue(strings.NewReader(`"nope"`))
	assert.True(t, domainerrors.Is(err, domainerrors.ErrCorruptData))
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	entriesPath := filepath.Join(dir, "list.json")
	cataloguePath := filepath.Join(dir, "catalogue.json")
	require.NoError(t, os.WriteFile(entriesPath, []byte(`[{"title": "Naruto"}]`), 0o600))
	require.NoError(t, os.WriteFile(cataloguePath, []byte(`[{"id": 20, "title": {"romaji": "Naruto"}}]`), 0o600))

	entries, err := LoadEntriesFile(entriesPath)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	records, err := LoadCatalogueFile(cataloguePath)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = LoadEntriesFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
