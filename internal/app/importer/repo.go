// Package importer loads wiktextract JSONL dumps into the words store.
package importer

import (
	"context"

	"github.com/heartmarshall/wiktapi/internal/domain"
)

// WordWriter persists normalized rows. Implemented by words.Repo.
type WordWriter interface {
	CopyWords(ctx context.Context, entries []domain.WordEntry) (int, error)
	// Consolidate folds rows of edition that share (word, part of speech)
	// into one and makes every row of a word carry the same shared columns.
	// It returns the number of rows folded away and of rows rewritten.
	Consolidate(ctx context.Context, edition string) (folded, reconciled int, err error)
}

// TxManager runs fn in one transaction. Implemented by postgres.TxManager.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SchemaManager controls the words table lifecycle. Implemented by words.Schema.
type SchemaManager interface {
	EnsureTable(ctx context.Context) error
	BuildIndexes(ctx context.Context) error
	Reset(ctx context.Context) error
}
