package migrate

import (
	"context"

	"github.com/listenupapp/mangamatch/internal/domain"
	"github.com/listenupapp/mangamatch/internal/matching"
	"github.com/listenupapp/mangamatch/internal/normalize"
)

// Source supplies candidate records for a title. Implementations may hit a
// remote catalogue; the engine itself never does.
type Source interface {
	Search(ctx context.Context, title string) ([]domain.TitleRecord, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, title string) ([]domain.TitleRecord, error)

// Search implements Source.
func (f SourceFunc) Search(ctx context.Context, title string) ([]domain.TitleRecord, error) {
	return f(ctx, title)
}

// StaticSource searches an in-memory catalogue. A record is a candidate when
// it shares a primary token, its canonical form or an initialism with the
// query.
type StaticSource struct {
	records []domain.TitleRecord
	index   map[string][]int
}

// NewStaticSource indexes records. The slice is retained, not copied.
func NewStaticSource(records []domain.TitleRecord) *StaticSource {
	s := &StaticSource{records: records, index: make(map[string][]int)}
	for i := range records {
		seen := make(map[string]struct{})
		for _, f := range records[i].TitleFields() {
			for _, term := range searchTerms(f.Value) {
				if _, dup := seen[term]; dup {
					continue
				}
				seen[term] = struct{}{}
				s.index[term] = append(s.index[term], i)
			}
			if init := matching.Initialism(f.Value); len(init) >= 2 {
				key := "^" + init
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					s.index[key] = append(s.index[key], i)
				}
			}
		}
	}
	return s
}

// Len returns the catalogue size.
func (s *StaticSource) Len() int {
	return len(s.records)
}

// Search returns the indexed records sharing a term with title, in catalogue
// order.
func (s *StaticSource) Search(ctx context.Context, title string) ([]domain.TitleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hits := make(map[int]struct{})
	for _, term := range searchTerms(title) {
		for _, i := range s.index[term] {
			hits[i] = struct{}{}
		}
	}
	if compact := normalize.Compact(title); compact != "" {
		for _, i := range s.index["^"+compact] {
			hits[i] = struct{}{}
		}
	}

	out := make([]domain.TitleRecord, 0, len(hits))
	for i := range s.records {
		if _, ok := hits[i]; ok {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

// searchTerms are the primary tokens of title plus its canonical form, so
// titles without word boundaries (native scripts) still index.
func searchTerms(title string) []string {
	terms := normalize.PrimaryTokens(normalize.Tokens(title))
	if n := normalize.Normalize(title); n != "" {
		terms = append(terms, "="+n)
	}
	return terms
}
