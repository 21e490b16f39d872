// Package words implements the dictionary store on PostgreSQL: schema
// management, bulk COPY loading and the read queries behind the HTTP API.
package words

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/wiktapi/internal/adapter/postgres"
	"github.com/heartmarshall/wiktapi/internal/domain"
)

const (
	tableName = "words"

	// SearchLimit caps the number of prefix-search hits.
	SearchLimit = 50
)

var rowColumns = []string{
	"id", "word", "edition", "phonetic", "phonetics", "meaning",
	"category", "translations", "tenses", "created_at",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides read access to the words table. Writes happen only through
// the bulk loader in repo_bulk.go.
type Repo struct {
	db postgres.Querier
}

// New creates a words repository on top of a pool (or any Querier).
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// FindByWord returns every row stored under exactly q.Word, in insertion
// order. An empty result is not an error.
func (r *Repo) FindByWord(ctx context.Context, q domain.WordQuery) ([]domain.WordRow, error) {
	sb := psql.Select(rowColumns...).
		From(tableName).
		Where(squirrel.Eq{"word": q.Word})
	sb = applyWordFilters(sb, q.Category, q.Edition).OrderBy("seq")

	return r.selectRows(ctx, sb, q.Word)
}

// FindByWordFold returns rows whose word equals q.Word ignoring case.
// Rows are ordered by spelling (bytewise) and then insertion order, so rows
// of one spelling are contiguous.
func (r *Repo) FindByWordFold(ctx context.Context, q domain.WordQuery) ([]domain.WordRow, error) {
	sb := psql.Select(rowColumns...).
		From(tableName).
		Where(squirrel.Expr("lower(word) = lower(?)", q.Word))
	sb = applyWordFilters(sb, q.Category, q.Edition).OrderBy(`word COLLATE "C"`, "seq")

	return r.selectRows(ctx, sb, q.Word)
}

func (r *Repo) selectRows(ctx context.Context, sb squirrel.SelectBuilder, key string) ([]domain.WordRow, error) {
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build word query: %w", err)
	}

	var rows []domain.WordRow
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "word", key)
	}
	return rows, nil
}

// SearchPrefix returns up to limit distinct (word, category) pairs whose
// word starts with prefix ignoring case. Both sides are folded by the
// database's lower() so they agree for non-ASCII input. LIKE wildcards in
// the prefix match literally. limit is clamped to SearchLimit.
func (r *Repo) SearchPrefix(ctx context.Context, prefix, category string, limit int) ([]domain.WordSummary, error) {
	if limit <= 0 || limit > SearchLimit {
		limit = SearchLimit
	}

	sb := psql.Select("word", "category", "MAX(phonetic) AS phonetic").
		From(tableName).
		Where(squirrel.Expr(`lower(word) LIKE lower(?) ESCAPE '\'`, LikePrefixPattern(prefix)))
	if category != "" {
		sb = sb.Where(squirrel.Eq{"category": category})
	}
	sb = sb.GroupBy("word", "category").
		OrderBy(`word COLLATE "C"`, "category").
		Limit(uint64(limit))

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	results := []domain.WordSummary{}
	if err := pgxscan.Select(ctx, r.q(ctx), &results, query, args...); err != nil {
		return nil, postgres.MapError(err, "search", prefix)
	}
	return results, nil
}

// LikePrefixPattern escapes the LIKE metacharacters (\ % _) of prefix with
// a backslash and appends the trailing wildcard. Case is left alone.
func LikePrefixPattern(prefix string) string {
	var b strings.Builder
	b.Grow(len(prefix) + 2)
	for _, r := range prefix {
		switch r {
		case '\\', '%', '_':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('%')
	return b.String()
}

// List returns one page of distinct (word, edition, category) triples.
func (r *Repo) List(ctx context.Context, f domain.WordFilter) ([]domain.WordListItem, error) {
	sb := psql.Select("word", "edition", "category", "MAX(phonetic) AS phonetic").From(tableName)
	sb = applyWordFilters(sb, f.Category, f.Edition).
		GroupBy("word", "edition", "category").
		OrderBy(`word COLLATE "C"`, `edition COLLATE "C"`, `category COLLATE "C"`).
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	items := []domain.WordListItem{}
	if err := pgxscan.Select(ctx, r.q(ctx), &items, query, args...); err != nil {
		return nil, postgres.MapError(err, "words", fmt.Sprintf("offset %d", f.Offset))
	}
	return items, nil
}

// Count returns the number of distinct (word, edition, category) triples
// matching the filter's category and edition.
func (r *Repo) Count(ctx context.Context, f domain.WordFilter) (int, error) {
	sb := psql.Select("count(DISTINCT (word, edition, category))").From(tableName)
	sb = applyWordFilters(sb, f.Category, f.Edition)

	query, args, err := sb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.q(ctx).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, postgres.MapError(err, "words", "count")
	}
	return total, nil
}

// Categories returns the distinct categories present in the store.
func (r *Repo) Categories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

// Editions returns the distinct source editions present in the store.
func (r *Repo) Editions(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "edition")
}

func (r *Repo) distinct(ctx context.Context, column string) ([]string, error) {
	query, args, err := psql.Select(column).
		From(tableName).
		GroupBy(column).
		OrderBy(column + ` COLLATE "C"`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build distinct %s query: %w", column, err)
	}

	values := []string{}
	if err := pgxscan.Select(ctx, r.q(ctx), &values, query, args...); err != nil {
		return nil, postgres.MapError(err, "distinct", column)
	}
	return values, nil
}

func applyWordFilters(sb squirrel.SelectBuilder, category, edition string) squirrel.SelectBuilder {
	if category != "" {
		sb = sb.Where(squirrel.Eq{"category": category})
	}
	if edition != "" {
		sb = sb.Where(squirrel.Eq{"edition": edition})
	}
	return sb
}
