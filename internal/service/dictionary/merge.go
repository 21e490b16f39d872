package dictionary

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/heartmarshall/wiktapi/internal/domain"
)

// ErrEmptyRows is returned by Merge when there is nothing to merge.
var ErrEmptyRows = errors.New("merge: no rows")

// Merge folds the stored rows of one word into a single record. Rows must be
// in storage order: the first row supplies the canonical scalars, meanings and
// translations are concatenated in row order.
func Merge(rows []domain.WordRow) (*domain.WordRecord, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyRows
	}
	first := rows[0]

	phonRow := first
	for _, r := range rows {
		if r.Phonetic != nil {
			phonRow = r
			break
		}
	}

	phonetics, err := decodeList[domain.PhoneticItem](phonRow.Phonetics, "phonetics")
	if err != nil {
		return nil, err
	}

	meanings := make([]domain.Meaning, 0, len(rows))
	translations := make([]domain.TranslationItem, 0)
	var tenses *domain.Tenses

	for _, r := range rows {
		var m domain.Meaning
		if err := decode(r.Meaning, &m, "meaning"); err != nil {
			return nil, err
		}
		meanings = append(meanings, normalizeMeaning(m))

		tr, err := decodeList[domain.TranslationItem](r.Translations, "translations")
		if err != nil {
			return nil, err
		}
		translations = append(translations, tr...)

		if tenses == nil && !isNull(r.Tenses) {
			var t domain.Tenses
			if err := decode(r.Tenses, &t, "tenses"); err != nil {
				return nil, err
			}
			tenses = &t
		}
	}

	return &domain.WordRecord{
		ID:           first.ID,
		Word:         first.Word,
		Edition:      first.Edition,
		Phonetic:     phonRow.Phonetic,
		Phonetics:    phonetics,
		Meanings:     meanings,
		Category:     domain.Category(first.Category),
		Translations: translations,
		Tenses:       tenses,
		CreatedAt:    first.CreatedAt,
	}, nil
}

func decode(data []byte, v any, column string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &domain.MalformedDataError{Column: column, Err: err}
	}
	return nil
}

// decodeList treats an empty or null column as an empty list.
func decodeList[T any](data []byte, column string) ([]T, error) {
	out := make([]T, 0)
	if isNull(data) {
		return out, nil
	}
	if err := decode(data, &out, column); err != nil {
		return nil, err
	}
	if out == nil {
		out = make([]T, 0)
	}
	return out, nil
}

func isNull(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

func normalizeMeaning(m domain.Meaning) domain.Meaning {
	if m.Definitions == nil {
		m.Definitions = []domain.Definition{}
	}
	if m.Synonyms == nil {
		m.Synonyms = []string{}
	}
	if m.Antonyms == nil {
		m.Antonyms = []string{}
	}
	return m
}
