package migrate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/listenupapp/mangamatch/internal/domain"
	domainerrors "github.com/listenupapp/mangamatch/internal/errors"
	"github.com/listenupapp/mangamatch/internal/validation"
)

// readingList accepts either a bare array or an {"entries": [...]} object.
type readingList struct {
	Entries []Entry `json:"entries" validate:"dive"`
}

// LoadEntries decodes and validates a reading list.
func LoadEntries(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read reading list: %w", err)
	}

	var list readingList
	if err := json.Unmarshal(data, &list.Entries); err != nil {
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, domainerrors.Validation("malformed reading list").WithCause(err)
		}
	}

	if err := validation.New().Validate(list); err != nil {
		return nil, err
	}
	return list.Entries, nil
}

// LoadEntriesFile reads a reading list from path.
func LoadEntriesFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reading list: %w", err)
	}
	defer f.Close()
	return LoadEntries(f)
}

// catalogue accepts a bare array of media objects or the search-response
// shape {"data": {"Page": {"media": [...]}}}.
type catalogue struct {
	Data struct {
		Page struct {
			Media []domain.TitleRecord `json:"media"`
		} `json:"Page"`
	} `json:"data"`
}

// LoadCatalogue decodes candidate records.
func LoadCatalogue(r io.Reader) ([]domain.TitleRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}

	var records []domain.TitleRecord
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var page catalogue
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, domainerrors.CorruptData("malformed catalogue").WithCause(err)
	}
	return page.Data.Page.Media, nil
}

// LoadCatalogueFile reads candidate records from path.
func LoadCatalogueFile(path string) ([]domain.TitleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalogue: %w", err)
	}
	defer f.Close()
	return LoadCatalogue(f)
}
