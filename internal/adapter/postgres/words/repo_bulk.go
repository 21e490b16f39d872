package words

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/wiktapi/internal/adapter/postgres"
	"github.com/heartmarshall/wiktapi/internal/domain"
)

var copyColumns = []string{
	"id", "word", "edition", "phonetic", "phonetics", "meaning",
	"category", "translations", "tenses", "created_at",
}

// CopyWords streams entries into the words table with COPY FROM.
// Call it inside TxManager.RunInTx so a failed batch leaves no rows behind.
// Returns the number of copied rows. A duplicate id maps to
// domain.ErrAlreadyExists, a rejected category to domain.ErrValidation.
func (r *Repo) CopyWords(ctx context.Context, entries []domain.WordEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	src := pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
		return copyRow(entries[i])
	})

	n, err := r.q(ctx).CopyFrom(ctx, pgx.Identifier{tableName}, copyColumns, src)
	if err != nil {
		return 0, postgres.MapError(err, "copy words from", entries[0].Word)
	}
	return int(n), nil
}

func copyRow(e domain.WordEntry) ([]any, error) {
	phonetics, err := marshalColumn("phonetics", nonNil(e.Phonetics))
	if err != nil {
		return nil, err
	}
	meaning, err := marshalColumn("meaning", e.Meaning)
	if err != nil {
		return nil, err
	}
	translations, err := marshalColumn("translations", nonNil(e.Translations))
	if err != nil {
		return nil, err
	}

	var tenses any
	if e.Tenses != nil {
		if tenses, err = marshalColumn("tenses", e.Tenses); err != nil {
			return nil, err
		}
	}

	return []any{
		e.ID, e.Word, e.Edition, e.Phonetic, phonetics, meaning,
		string(e.Category), translations, tenses, e.CreatedAt,
	}, nil
}

func marshalColumn(column string, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", column, err)
	}
	return b, nil
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
