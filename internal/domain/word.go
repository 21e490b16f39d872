package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// PhoneticItem is one pronunciation of a word.
type PhoneticItem struct {
	Text     string       `json:"text"`
	Type     PhoneticType `json:"type"`
	AudioURL *string      `json:"audioUrl"`
}

// Definition is a single gloss with an optional usage example.
type Definition struct {
	Definition string  `json:"definition"`
	Example    *string `json:"example,omitempty"`
}

// Meaning groups the definitions of one part of speech.
type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
	Synonyms     []string     `json:"synonyms"`
	Antonyms     []string     `json:"antonyms"`
}

// Tenses is the six-field inflection summary of a word.
type Tenses struct {
	Base     string `json:"base"`
	Past     string `json:"past"`
	Present  string `json:"present"`
	Future   string `json:"future"`
	Singular string `json:"singular"`
	Plural   string `json:"plural"`
}

// TranslationItem is a translation of the word into another language.
type TranslationItem struct {
	PartOfSpeech string `json:"partOfSpeech"`
	LangCode     string `json:"lang_code"`
	Code         string `json:"code"`
	Lang         string `json:"lang"`
	Word         string `json:"word"`
}

// WordEntry is one storage row as produced by the importer:
// a single (edition, word, part of speech) unit.
type WordEntry struct {
	ID           uuid.UUID
	Word         string
	Edition      string
	Phonetic     *string
	Phonetics    []PhoneticItem
	Meaning      Meaning
	Category     Category
	Translations []TranslationItem
	Tenses       *Tenses
	CreatedAt    time.Time
}

// WordRow is a storage row as read back from the database. Structured
// columns stay encoded until the rows are merged.
type WordRow struct {
	ID           uuid.UUID `db:"id"`
	Word         string    `db:"word"`
	Edition      string    `db:"edition"`
	Phonetic     *string   `db:"phonetic"`
	Phonetics    []byte    `db:"phonetics"`
	Meaning      []byte    `db:"meaning"`
	Category     string    `db:"category"`
	Translations []byte    `db:"translations"`
	Tenses       []byte    `db:"tenses"`
	CreatedAt    time.Time `db:"created_at"`
}

// WordRecord is the unified view of every row sharing one word.
// It is built on each read and never persisted.
type WordRecord struct {
	ID           uuid.UUID         `json:"id"`
	Word         string            `json:"word"`
	Edition      string            `json:"edition"`
	Phonetic     *string           `json:"phonetic"`
	Phonetics    []PhoneticItem    `json:"phonetics"`
	Meanings     []Meaning         `json:"meanings"`
	Category     Category          `json:"category"`
	Translations []TranslationItem `json:"translations"`
	Tenses       *Tenses           `json:"tenses"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// Synonyms returns the synonyms of all meanings, deduplicated in order of
// first occurrence.
func (r *WordRecord) Synonyms() []string {
	return lo.Uniq(lo.FlatMap(r.Meanings, func(m Meaning, _ int) []string { return m.Synonyms }))
}

// Antonyms returns the antonyms of all meanings, deduplicated in order of
// first occurrence.
func (r *WordRecord) Antonyms() []string {
	return lo.Uniq(lo.FlatMap(r.Meanings, func(m Meaning, _ int) []string { return m.Antonyms }))
}

// WordSummary is one prefix-search hit.
type WordSummary struct {
	Word     string  `json:"word"     db:"word"`
	Category string  `json:"category" db:"category"`
	Phonetic *string `json:"phonetic" db:"phonetic"`
}

// WordListItem is one entry of the paginated word listing.
type WordListItem struct {
	Word     string  `json:"word"     db:"word"`
	Edition  string  `json:"edition"  db:"edition"`
	Category string  `json:"category" db:"category"`
	Phonetic *string `json:"phonetic" db:"phonetic"`
}

// WordPage is a page of the word listing. Total counts every matching
// (word, edition, category) triple, not just the returned items.
type WordPage struct {
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int            `json:"total"`
	Items []WordListItem `json:"words"`
}

// WordQuery selects the rows of one word, optionally narrowed to a category
// and a source edition.
type WordQuery struct {
	Word     string
	Category string
	Edition  string
}

// WordFilter narrows the paginated word listing.
type WordFilter struct {
	Category string
	Edition  string
	Limit    int
	Offset   int
}
