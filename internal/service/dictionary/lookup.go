package dictionary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/wiktapi/internal/domain"
)

// Lookup returns the merged record of one word. An exact match wins; without
// one, a case-insensitive match is tried and only the first stored spelling
// is kept. Without an edition filter rows of every edition are merged.
func (s *Service) Lookup(ctx context.Context, input LookupInput) (*domain.WordRecord, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}
	q := input.query()

	if s.cache != nil {
		rec, err := s.cache.Get(ctx, q)
		if err != nil {
			s.log.WarnContext(ctx, "word cache get failed", slog.String("word", q.Word), slog.String("error", err.Error()))
		} else if rec != nil {
			return rec, nil
		}
	}

	rows, err := s.words.FindByWord(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find word: %w", err)
	}

	if len(rows) == 0 {
		rows, err = s.words.FindByWordFold(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("find word (fold): %w", err)
		}
		rows = firstSpelling(rows)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("word %q: %w", q.Word, domain.ErrNotFound)
	}

	rec, err := Merge(rows)
	if err != nil {
		s.log.ErrorContext(ctx, "merge word rows",
			slog.String("word", q.Word),
			slog.Int("rows", len(rows)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("merge %q: %w", q.Word, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, q, rec); err != nil {
			s.log.WarnContext(ctx, "word cache set failed", slog.String("word", q.Word), slog.String("error", err.Error()))
		}
	}

	return rec, nil
}

// firstSpelling keeps the leading run of rows sharing the first row's word.
// Rows arrive grouped by spelling.
func firstSpelling(rows []domain.WordRow) []domain.WordRow {
	if len(rows) == 0 {
		return rows
	}
	n := 1
	for n < len(rows) && rows[n].Word == rows[0].Word {
		n++
	}
	return rows[:n]
}
