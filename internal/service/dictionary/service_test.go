package dictionary

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wiktapi/internal/domain"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockWordRepo struct {
	FindByWordFunc     func(ctx context.Context, q domain.WordQuery) ([]domain.WordRow, error)
	FindByWordFoldFunc func(ctx context.Context, q domain.WordQuery) ([]domain.WordRow, error)
	SearchPrefixFunc   func(ctx context.Context, prefix, category string, limit int) ([]domain.WordSummary, error)
	ListFunc           func(ctx context.Context, f domain.WordFilter) ([]domain.WordListItem, error)
	CountFunc          func(ctx context.Context, f domain.WordFilter) (int, error)
	CategoriesFunc     func(ctx context.Context) ([]string, error)
	EditionsFunc       func(ctx context.Context) ([]string, error)
}

func (m *mockWordRepo) FindByWord(ctx context.Context, q domain.WordQuery) ([]domain.WordRow, error) {
	if m.FindByWordFunc != nil {
		return m.FindByWordFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockWordRepo) FindByWordFold(ctx context.Context, q domain.WordQuery) ([]domain.WordRow, error) {
	if m.FindByWordFoldFunc != nil {
		return m.FindByWordFoldFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockWordRepo) SearchPrefix(ctx context.Context, prefix, category string, limit int) ([]domain.WordSummary, error) {
	if m.SearchPrefixFunc != nil {
		return m.SearchPrefixFunc(ctx, prefix, category, limit)
	}
	return nil, nil
}

func (m *mockWordRepo) List(ctx context.Context, f domain.WordFilter) ([]domain.WordListItem, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, nil
}

func (m *mockWordRepo) Count(ctx context.Context, f domain.WordFilter) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, f)
	}
	return 0, nil
}

func (m *mockWordRepo) Categories(ctx context.Context) ([]string, error) {
	if m.CategoriesFunc != nil {
		return m.CategoriesFunc(ctx)
	}
	return nil, nil
}

func (m *mockWordRepo) Editions(ctx context.Context) ([]string, error) {
	if m.EditionsFunc != nil {
		return m.EditionsFunc(ctx)
	}
	return nil, nil
}

type mockWordCache struct {
	mu      sync.Mutex
	records map[domain.WordQuery]*domain.WordRecord
	getErr  error
	setErr  error
	sets    int
}

func newMockWordCache() *mockWordCache {
	return &mockWordCache{records: make(map[domain.WordQuery]*domain.WordRecord)}
}

func (m *mockWordCache) Get(_ context.Context, q domain.WordQuery) (*domain.WordRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.records[q], nil
}

func (m *mockWordCache) Set(_ context.Context, q domain.WordQuery, rec *domain.WordRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.records[q] = rec
	return nil
}

// ===========================================================================
// Helpers
// ===========================================================================

func newTestService() (*Service, *mockWordRepo) {
	repo := &mockWordRepo{}
	return NewService(slog.Default(), repo), repo
}

func rowsOf(t *testing.T, word string, pos ...string) []domain.WordRow {
	rows := make([]domain.WordRow, 0, len(pos))
	for _, p := range pos {
		rows = append(rows, makeRow(t, word, p))
	}
	return rows
}

// ===========================================================================
// 1. Lookup
// ===========================================================================

func TestService_Lookup_Exact(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()

	repo.FindByWordFunc = func(_ context.Context, q domain.WordQuery) ([]domain.WordRow, error) {
		assert.Equal(t, domain.WordQuery{Word: "run", Category: "sports", Edition: "en"}, q)
		return rowsOf(t, "run", "verb", "noun"), nil
	}
	repo.FindByWordFoldFunc = func(context.Context, domain.WordQuery) ([]domain.WordRow, error) {
		t.Fatal("fold lookup must not run after an exact hit")
		return nil, nil
	}

	rec, err := svc.Lookup(context.Background(), LookupInput{Word: "  run ", Category: "sports", Edition: "en"})
	require.NoError(t, err)
	assert.Equal(t, "run", rec.Word)
	assert.Len(t, rec.Meanings, 2)
}

func TestService_Lookup_FoldKeepsFirstSpelling(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()

	repo.FindByWordFoldFunc = func(_ context.Context, q domain.WordQuery) ([]domain.WordRow, error) {
		assert.Equal(t, "PARIS", q.Word)
		rows := rowsOf(t, "Paris", "name")
		return append(rows, rowsOf(t, "paris", "noun", "verb")...), nil
	}

	rec, err := svc.Lookup(context.Background(), LookupInput{Word: "PARIS"})
	require.NoError(t, err)
	assert.Equal(t, "Paris", rec.Word)
	require.Len(t, rec.Meanings, 1)
	assert.Equal(t, "name", rec.Meanings[0].PartOfSpeech)
}

func TestService_Lookup_NotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.Lookup(context.Background(), LookupInput{Word: "zzzz"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Lookup_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input LookupInput
		field string
	}{
		{"empty word", LookupInput{Word: "   "}, "word"},
		{"unknown category", LookupInput{Word: "run", Category: "weather"}, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, _ := newTestService()

			_, err := svc.Lookup(context.Background(), tt.input)
			require.ErrorIs(t, err, domain.ErrValidation)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Errors[0].Field)
		})
	}
}

func TestService_Lookup_CollectsFieldErrors(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.Lookup(context.Background(), LookupInput{Word: " ", Category: "weather"})
	require.ErrorIs(t, err, domain.ErrValidation)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []domain.FieldError{
		{Field: "word", Message: "required"},
		{Field: "category", Message: "unknown category weather"},
	}, ve.Errors)
}

func TestService_Lookup_RepoError(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()

	dbErr := errors.New("connection reset")
	repo.FindByWordFunc = func(context.Context, domain.WordQuery) ([]domain.WordRow, error) {
		return nil, dbErr
	}

	_, err := svc.Lookup(context.Background(), LookupInput{Word: "run"})
	assert.ErrorIs(t, err, dbErr)
}

func TestService_Lookup_Malformed(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()

	repo.FindByWordFunc = func(context.Context, domain.WordQuery) ([]domain.WordRow, error) {
		rows := rowsOf(t, "bad", "noun")
		rows[0].Meaning = []byte("{")
		return rows, nil
	}

	_, err := svc.Lookup(context.Background(), LookupInput{Word: "bad"})
	assert.ErrorIs(t, err, domain.ErrMalformedData)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Lookup_Cache(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()
	cache := newMockWordCache()
	svc.SetCache(cache)

	calls := 0
	repo.FindByWordFunc = func(context.Context, domain.WordQuery) ([]domain.WordRow, error) {
		calls++
		return rowsOf(t, "cat", "noun"), nil
	}

	first, err := svc.Lookup(context.Background(), LookupInput{Word: "cat"})
	require.NoError(t, err)
	second, err := svc.Lookup(context.Background(), LookupInput{Word: " cat"})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
}

func TestService_Lookup_CacheErrorsIgnored(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()
	cache := newMockWordCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	svc.SetCache(cache)

	repo.FindByWordFunc = func(context.Context, domain.WordQuery) ([]domain.WordRow, error) {
		return rowsOf(t, "cat", "noun"), nil
	}

	rec, err := svc.Lookup(context.Background(), LookupInput{Word: "cat"})
	require.NoError(t, err)
	assert.Equal(t, "cat", rec.Word)
}

func TestService_Lookup_NotFoundNotCached(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	cache := newMockWordCache()
	svc.SetCache(cache)

	_, err := svc.Lookup(context.Background(), LookupInput{Word: "nope"})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, cache.sets)
}

// ===========================================================================
// 2. Search
// ===========================================================================

func TestService_Search(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()

	expected := []domain.WordSummary{{Word: "test", Category: "general"}}
	repo.SearchPrefixFunc = func(_ context.Context, prefix, category string, limit int) ([]domain.WordSummary, error) {
		assert.Equal(t, "tes", prefix)
		assert.Equal(t, "general", category)
		assert.Equal(t, SearchLimit, limit)
		return expected, nil
	}

	results, err := svc.Search(context.Background(), SearchInput{Query: " tes ", Category: "general"})
	require.NoError(t, err)
	assert.Equal(t, expected, results)
}

func TestService_Search_BlankQuery(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()

	repo.SearchPrefixFunc = func(context.Context, string, string, int) ([]domain.WordSummary, error) {
		t.Fatal("repository must not be called")
		return nil, nil
	}

	_, err := svc.Search(context.Background(), SearchInput{Query: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_Search_EmptyResultIsNotNil(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	results, err := svc.Search(context.Background(), SearchInput{Query: "qqq"})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

// ===========================================================================
// 3. List
// ===========================================================================

func TestService_List_Clamps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", 1, 50, 1, 50, 0},
		{"page zero", 0, 10, 1, 10, 0},
		{"negative page", -3, 10, 1, 10, 0},
		{"limit over max", 2, 500, 2, 200, 200},
		{"limit zero", 3, 0, 3, 1, 2},
		{"negative limit", 1, -5, 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, repo := newTestService()

			var captured domain.WordFilter
			var mu sync.Mutex
			repo.ListFunc = func(_ context.Context, f domain.WordFilter) ([]domain.WordListItem, error) {
				mu.Lock()
				captured = f
				mu.Unlock()
				return nil, nil
			}

			page, err := svc.List(context.Background(), ListInput{Page: tt.page, Limit: tt.limit})
			require.NoError(t, err)

			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Equal(t, tt.wantLimit, captured.Limit)
			assert.Equal(t, tt.wantOffset, captured.Offset)
			assert.NotNil(t, page.Items)
		})
	}
}

func TestService_List_TotalAndFilters(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()

	items := []domain.WordListItem{{Word: "a", Edition: "fr", Category: "sports"}}
	repo.ListFunc = func(_ context.Context, f domain.WordFilter) ([]domain.WordListItem, error) {
		assert.Equal(t, "sports", f.Category)
		assert.Equal(t, "fr", f.Edition)
		return items, nil
	}
	repo.CountFunc = func(_ context.Context, f domain.WordFilter) (int, error) {
		assert.Equal(t, "sports", f.Category)
		assert.Equal(t, "fr", f.Edition)
		return 42, nil
	}

	page, err := svc.List(context.Background(), ListInput{Page: 1, Limit: 50, Category: "sports", Edition: "fr"})
	require.NoError(t, err)
	assert.Equal(t, 42, page.Total)
	assert.Equal(t, items, page.Items)
}

func TestService_List_UnknownCategory(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.List(context.Background(), ListInput{Page: 1, Limit: 50, Category: "weather"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_List_CountError(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()

	dbErr := errors.New("timeout")
	repo.CountFunc = func(context.Context, domain.WordFilter) (int, error) {
		return 0, dbErr
	}

	_, err := svc.List(context.Background(), ListInput{Page: 1, Limit: 50})
	assert.ErrorIs(t, err, dbErr)
}

// ===========================================================================
// 4. Metadata
// ===========================================================================

func TestService_CategoriesAndLanguages(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()

	repo.CategoriesFunc = func(context.Context) ([]string, error) {
		return []string{"general", "sports"}, nil
	}

	cats, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"general", "sports"}, cats)

	langs, err := svc.Languages(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, langs)
	assert.Empty(t, langs)
}

func TestService_Languages_Error(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()

	repo.EditionsFunc = func(context.Context) ([]string, error) {
		return nil, errors.New("boom")
	}

	_, err := svc.Languages(context.Background())
	assert.Error(t, err)
}
