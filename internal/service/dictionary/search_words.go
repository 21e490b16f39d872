package dictionary

import (
	"context"
	"fmt"

	"github.com/heartmarshall/wiktapi/internal/domain"
)

// Search returns up to SearchLimit words starting with the query,
// case-insensitively, one result per (word, category).
func (s *Service) Search(ctx context.Context, input SearchInput) ([]domain.WordSummary, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	results, err := s.words.SearchPrefix(ctx, input.Query, input.Category, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search prefix: %w", err)
	}
	if results == nil {
		results = []domain.WordSummary{}
	}
	return results, nil
}
