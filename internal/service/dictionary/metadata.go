package dictionary

import (
	"context"
	"fmt"
)

// Categories lists the categories present in the store.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.words.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return nonNil(cats), nil
}

// Languages lists the source editions present in the store.
func (s *Service) Languages(ctx context.Context) ([]string, error) {
	eds, err := s.words.Editions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list editions: %w", err)
	}
	return nonNil(eds), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
