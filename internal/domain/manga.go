// Package domain contains the core entities shared by the matching engine, the candidate cache and the migration layer.
package domain

import "strconv"

// MediaFormat is the catalogue's format tag for a record.
type MediaFormat string

// Formats reported by the target catalogue.
const (
	FormatManga   MediaFormat = "MANGA"
	FormatOneShot MediaFormat = "ONE_SHOT"
	FormatNovel   MediaFormat = "NOVEL"
)

// Comparable reports whether records of this format can be matched against a
// manga reading list. Novels share titles with their manga adaptations and are
// excluded.
func (f MediaFormat) Comparable() bool {
	return f != FormatNovel
}

// Titles holds the named title fields of a catalogue record.
// Any of them may be empty.
type Titles struct {
	Romaji  string `json:"romaji,omitempty"`
	English string `json:"english,omitempty"`
	Native  string `json:"native,omitempty"`
}

// TitleRecord is a candidate record from the target catalogue.
// The engine never mutates it; the caller owns it.
type TitleRecord struct {
	ID       int         `json:"id"`
	Title    Titles      `json:"title"`
	Synonyms []string    `json:"synonyms,omitempty"`
	Format   MediaFormat `json:"format,omitempty"`
}

// Title source names used in NormalizedTitle.Source.
const (
	SourceRomaji  = "romaji"
	SourceEnglish = "english"
	SourceNative  = "native"
)

// SynonymSource returns the source name for the i-th synonym.
func SynonymSource(i int) string {
	return "synonym-" + strconv.Itoa(i)
}

// TitleField is one non-empty title string of a record together with the
// field it came from.
type TitleField struct {
	Source string
	Value  string
}

// TitleFields returns every non-empty title of the record in priority order:
// romaji, english, native, then synonyms.
func (r *TitleRecord) TitleFields() []TitleField {
	if r == nil {
		return nil
	}

	fields := make([]TitleField, 0, 3+len(r.Synonyms))
	add := func(source, value string) {
		if isBlank(value) {
			return
		}
		fields = append(fields, TitleField{Source: source, Value: value})
	}

	add(SourceRomaji, r.Title.Romaji)
	add(SourceEnglish, r.Title.English)
	add(SourceNative, r.Title.Native)
	for i, syn := range r.Synonyms {
		add(SynonymSource(i), syn)
	}

	return fields
}

// PreferredTitle returns the English title, falling back to romaji.
func (r *TitleRecord) PreferredTitle() string {
	if r == nil {
		return ""
	}
	if !isBlank(r.Title.English) {
		return r.Title.English
	}
	return r.Title.Romaji
}

// DisplayTitle returns the first available title for human-facing output.
func (r *TitleRecord) DisplayTitle() string {
	if t := r.PreferredTitle(); !isBlank(t) {
		return t
	}
	if r != nil && !isBlank(r.Title.Native) {
		return r.Title.Native
	}
	return "#" + strconv.Itoa(r.idOrZero())
}

func (r *TitleRecord) idOrZero() int {
	if r == nil {
		return 0
	}
	return r.ID
}

// FilterComparable returns the records whose format can be matched.
// The input slice is not modified.
func FilterComparable(records []TitleRecord) []TitleRecord {
	out := make([]TitleRecord, 0, len(records))
	for _, r := range records {
		if r.Format.Comparable() {
			out = append(out, r)
		}
	}
	return out
}

func isBlank(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '　':
			continue
		default:
			return false
		}
	}
	return true
}
