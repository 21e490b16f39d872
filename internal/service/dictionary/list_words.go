package dictionary

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wiktapi/internal/domain"
)

// List returns one page of distinct (word, edition, category) triples.
func (s *Service) List(ctx context.Context, input ListInput) (*domain.WordPage, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	page := max(input.Page, 1)
	limit := clampLimit(input.Limit, 1, MaxPageLimit, 1)

	filter := domain.WordFilter{
		Category: input.Category,
		Edition:  input.Edition,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	var (
		items []domain.WordListItem
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.words.List(gctx, filter)
		if err != nil {
			return fmt.Errorf("list words: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.words.Count(gctx, filter)
		if err != nil {
			return fmt.Errorf("count words: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if items == nil {
		items = []domain.WordListItem{}
	}
	return &domain.WordPage{Page: page, Limit: limit, Total: total, Items: items}, nil
}
