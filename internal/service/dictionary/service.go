// Package dictionary serves merged word records from the words store.
package dictionary

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/wiktapi/internal/domain"
)

const (
	// SearchLimit caps prefix search results.
	SearchLimit = 50

	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type wordRepo interface {
	FindByWord(ctx context.Context, q domain.WordQuery) ([]domain.WordRow, error)
	FindByWordFold(ctx context.Context, q domain.WordQuery) ([]domain.WordRow, error)
	SearchPrefix(ctx context.Context, prefix, category string, limit int) ([]domain.WordSummary, error)
	List(ctx context.Context, f domain.WordFilter) ([]domain.WordListItem, error)
	Count(ctx context.Context, f domain.WordFilter) (int, error)
	Categories(ctx context.Context) ([]string, error)
	Editions(ctx context.Context) ([]string, error)
}

// wordCache is a read-through cache of merged records. A miss is (nil, nil).
type wordCache interface {
	Get(ctx context.Context, q domain.WordQuery) (*domain.WordRecord, error)
	Set(ctx context.Context, q domain.WordQuery, rec *domain.WordRecord) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the read-only dictionary queries.
type Service struct {
	log   *slog.Logger
	words wordRepo
	cache wordCache
}

// NewService creates a new Dictionary service.
func NewService(logger *slog.Logger, words wordRepo) *Service {
	return &Service{
		log:   logger.With("service", "dictionary"),
		words: words,
	}
}

// SetCache injects the optional record cache.
func (s *Service) SetCache(c wordCache) {
	s.cache = c
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// clampLimit ensures a limit is within [min, max], defaulting from 0 to defaultVal.
func clampLimit(limit, min, max, defaultVal int) int {
	if limit <= 0 {
		return defaultVal
	}
	if limit < min {
		return min
	}
	if limit > max {
		return max
	}
	return limit
}
