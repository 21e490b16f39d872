package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wiktapi/internal/domain"
)

// UniqueSuffix returns a short unique string for generating non-conflicting test data.
func UniqueSuffix() string {
	return uuid.New().String()[:8]
}

// BuildEntry returns a minimal valid row for word in edition with one
// definition under pos.
func BuildEntry(word, edition, pos string) domain.WordEntry {
	return domain.WordEntry{
		ID:        uuid.New(),
		Word:      word,
		Edition:   edition,
		Phonetics: []domain.PhoneticItem{},
		Meaning: domain.Meaning{
			PartOfSpeech: pos,
			Definitions:  []domain.Definition{{Definition: word + " as " + pos}},
			Synonyms:     []string{},
			Antonyms:     []string{},
		},
		Category:     domain.CategoryGeneral,
		Translations: []domain.TranslationItem{},
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

// SeedWords inserts entries in order with plain INSERTs, so seq follows
// slice order.
func SeedWords(t *testing.T, pool *pgxpool.Pool, entries ...domain.WordEntry) {
	t.Helper()
	ctx := context.Background()

	for _, e := range entries {
		var tenses []byte
		if e.Tenses != nil {
			tenses = mustJSON(t, e.Tenses)
		}

		_, err := pool.Exec(ctx,
			`INSERT INTO words (id, word, edition, phonetic, phonetics, meaning, category, translations, tenses, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			e.ID, e.Word, e.Edition, e.Phonetic,
			mustJSON(t, e.Phonetics), mustJSON(t, e.Meaning),
			string(e.Category), mustJSON(t, e.Translations), tenses, e.CreatedAt,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedWords insert %q: %v", e.Word, err)
		}
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("testhelper: marshal %T: %v", v, err)
	}
	return b
}
