package words_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	postgres "github.com/heartmarshall/wiktapi/internal/adapter/postgres"
	"github.com/heartmarshall/wiktapi/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/wiktapi/internal/adapter/postgres/words"
	"github.com/heartmarshall/wiktapi/internal/domain"
	"github.com/heartmarshall/wiktapi/internal/service/dictionary"
)

func TestRepo_FindByWord_InsertionOrder(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := words.New(pool)
	ctx := context.Background()

	word := "run-" + testhelper.UniqueSuffix()
	verb := testhelper.BuildEntry(word, "en", "verb")
	noun := testhelper.BuildEntry(word, "en", "noun")
	other := testhelper.BuildEntry(word+"x", "en", "noun")
	testhelper.SeedWords(t, pool, verb, noun, other)

	rows, err := repo.FindByWord(ctx, domain.WordQuery{Word: word})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, verb.ID, rows[0].ID)
	assert.Equal(t, noun.ID, rows[1].ID)
	assert.JSONEq(t, `[]`, string(rows[0].Phonetics))
	assert.Nil(t, rows[0].Tenses)

	rows, err = repo.FindByWord(ctx, domain.WordQuery{Word: word, Category: "sports"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepo_FindByWordFold(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := words.New(pool)
	ctx := context.Background()

	suffix := testhelper.UniqueSuffix()
	upper := testhelper.BuildEntry("Paris"+suffix, "en", "noun")
	lower := testhelper.BuildEntry("paris"+suffix, "en", "noun")
	testhelper.SeedWords(t, pool, lower, upper)

	rows, err := repo.FindByWordFold(ctx, domain.WordQuery{Word: "PARIS" + suffix})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Bytewise order puts the capitalised spelling first.
	assert.Equal(t, upper.Word, rows[0].Word)
	assert.Equal(t, lower.Word, rows[1].Word)
}

func TestRepo_SearchPrefix_EscapesWildcards(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := words.New(pool)
	ctx := context.Background()

	suffix := testhelper.UniqueSuffix()
	literal := testhelper.BuildEntry("p"+suffix+"50%off", "en", "noun")
	decoy := testhelper.BuildEntry("p"+suffix+"50xoff", "en", "noun")
	testhelper.SeedWords(t, pool, literal, decoy)

	got, err := repo.SearchPrefix(ctx, "P"+suffix+"50%", "", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, literal.Word, got[0].Word)

	got, err = repo.SearchPrefix(ctx, "p"+suffix+"5_", "", 0)
	require.NoError(t, err)
	assert.Empty(t, got, "underscore must match literally")
}

func TestRepo_SearchPrefix_FoldsCaseInDatabase(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := words.New(pool)
	ctx := context.Background()

	suffix := testhelper.UniqueSuffix()
	entry := testhelper.BuildEntry("Ärger"+suffix, "de", "noun")
	testhelper.SeedWords(t, pool, entry)

	got, err := repo.SearchPrefix(ctx, "ÄRGER"+strings.ToUpper(suffix), "", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entry.Word, got[0].Word)
}

func TestRepo_SearchPrefix_GroupsAndCaps(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := words.New(pool)
	ctx := context.Background()

	prefix := "cap" + testhelper.UniqueSuffix()
	phonetic := "/kæp/"

	verb := testhelper.BuildEntry(prefix+"-a", "en", "verb")
	noun := testhelper.BuildEntry(prefix+"-a", "en", "noun")
	noun.Phonetic = &phonetic
	testhelper.SeedWords(t, pool, verb, noun)

	for i := range 60 {
		testhelper.SeedWords(t, pool, testhelper.BuildEntry(prefix+"-z"+string(rune('a'+i%26))+string(rune('a'+i/26)), "en", "noun"))
	}

	got, err := repo.SearchPrefix(ctx, prefix, "", 0)
	require.NoError(t, err)
	require.Len(t, got, words.SearchLimit)

	assert.Equal(t, prefix+"-a", got[0].Word)
	require.NotNil(t, got[0].Phonetic)
	assert.Equal(t, phonetic, *got[0].Phonetic)

	keys := lo.Map(got, func(s domain.WordSummary, _ int) string { return s.Word + "|" + s.Category })
	assert.Len(t, lo.Uniq(keys), len(keys), "each (word, category) pair must appear once")
}

func TestRepo_ListPaginationIsComplete(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := words.New(pool)
	ctx := context.Background()

	edition := "x" + testhelper.UniqueSuffix()
	seeded := []string{"delta", "alpha", "Charlie", "bravo", "echo", "alpha"}
	for _, w := range seeded {
		testhelper.SeedWords(t, pool, testhelper.BuildEntry(w, edition, "noun"))
	}

	f := domain.WordFilter{Edition: edition, Limit: 2}
	total, err := repo.Count(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	var all []string
	for page := 0; page*f.Limit < total; page++ {
		f.Offset = page * f.Limit
		items, err := repo.List(ctx, f)
		require.NoError(t, err)
		for _, it := range items {
			all = append(all, it.Word)
		}
	}

	assert.Equal(t, []string{"Charlie", "alpha", "bravo", "delta", "echo"}, all)
}

func TestRepo_CategoriesAndEditions(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := words.New(pool)
	ctx := context.Background()

	edition := "y" + testhelper.UniqueSuffix()
	e := testhelper.BuildEntry("meta", edition, "noun")
	e.Category = domain.CategoryPets
	testhelper.SeedWords(t, pool, e)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Contains(t, categories, "pets")
	assert.IsIncreasing(t, categories)

	editions, err := repo.Editions(ctx)
	require.NoError(t, err)
	assert.Contains(t, editions, edition)
}

func TestRepo_CopyWords_RollsBackWithTx(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := words.New(pool)
	txm := postgres.NewTxManager(pool)
	ctx := context.Background()

	word := "copy-" + testhelper.UniqueSuffix()
	good := testhelper.BuildEntry(word, "en", "verb")
	dup := good
	dup.Meaning.PartOfSpeech = "noun"

	err := txm.RunInTx(ctx, func(ctx context.Context) error {
		_, err := repo.CopyWords(ctx, []domain.WordEntry{good, dup})
		return err
	})
	require.Error(t, err, "duplicate primary key must fail the batch")

	rows, err := repo.FindByWord(ctx, domain.WordQuery{Word: word})
	require.NoError(t, err)
	assert.Empty(t, rows, "failed batch must leave no rows")

	tenses := &domain.Tenses{Base: word, Past: word + "ed"}
	good.Tenses = tenses
	err = txm.RunInTx(ctx, func(ctx context.Context) error {
		n, err := repo.CopyWords(ctx, []domain.WordEntry{good})
		assert.Equal(t, 1, n)
		return err
	})
	require.NoError(t, err)

	rows, err = repo.FindByWord(ctx, domain.WordQuery{Word: word})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.JSONEq(t, `{"base":"`+word+`","past":"`+word+`ed","present":"","future":"","singular":"","plural":""}`, string(rows[0].Tenses))
}

func TestRepo_Consolidate_NonAdjacentRows(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := words.New(pool)
	txm := postgres.NewTxManager(pool)
	ctx := context.Background()

	edition := "c" + testhelper.UniqueSuffix()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	phonetic := "/bæŋk/"
	ufer := domain.TranslationItem{PartOfSpeech: "noun", LangCode: "de", Code: "de", Lang: "German", Word: "Ufer"}
	bankDE := domain.TranslationItem{PartOfSpeech: "noun", LangCode: "de", Code: "de", Lang: "German", Word: "Bank"}

	shore := testhelper.BuildEntry("bank", edition, "noun")
	shore.CreatedAt = t0
	shore.Meaning.Synonyms = []string{"shore"}
	shore.Translations = []domain.TranslationItem{ufer}

	walk := testhelper.BuildEntry("walk", edition, "verb")

	deposit := testhelper.BuildEntry("bank", edition, "verb")
	deposit.CreatedAt = t0.Add(time.Second)
	deposit.Tenses = &domain.Tenses{Base: "bank", Past: "banked"}
	deposit.Phonetic = &phonetic
	deposit.Phonetics = []domain.PhoneticItem{{Text: phonetic, Type: domain.PhoneticUS}}

	institution := testhelper.BuildEntry("bank", edition, "noun")
	institution.CreatedAt = t0.Add(2 * time.Second)
	institution.Meaning.Definitions = []domain.Definition{{Definition: "a financial institution"}}
	institution.Meaning.Synonyms = []string{"shore", "depository"}
	institution.Translations = []domain.TranslationItem{ufer, bankDE}

	testhelper.SeedWords(t, pool, shore, walk, deposit, institution)

	consolidate := func() (int, int) {
		t.Helper()
		var folded, reconciled int
		err := txm.RunInTx(ctx, func(ctx context.Context) error {
			var err error
			folded, reconciled, err = repo.Consolidate(ctx, edition)
			return err
		})
		require.NoError(t, err)
		return folded, reconciled
	}

	folded, reconciled := consolidate()
	assert.Equal(t, 1, folded)
	assert.Equal(t, 3, reconciled)

	rows, err := repo.FindByWord(ctx, domain.WordQuery{Word: "bank", Edition: edition})
	require.NoError(t, err)
	require.Len(t, rows, 2, "one row per part of speech")
	assert.Equal(t, shore.ID, rows[0].ID, "the earliest row survives")

	for _, r := range rows {
		assert.True(t, r.CreatedAt.Equal(t0), "created_at of %s", r.ID)
		require.NotNil(t, r.Phonetic)
		assert.Equal(t, phonetic, *r.Phonetic)
		assert.JSONEq(t, `{"base":"bank","past":"banked","present":"","future":"","singular":"","plural":""}`, string(r.Tenses))
	}

	rec, err := dictionary.Merge(rows)
	require.NoError(t, err)
	require.Len(t, rec.Meanings, 2)

	noun := rec.Meanings[0]
	assert.Equal(t, "noun", noun.PartOfSpeech)
	assert.Equal(t, []string{"bank as noun", "a financial institution"},
		lo.Map(noun.Definitions, func(d domain.Definition, _ int) string { return d.Definition }))
	assert.Equal(t, []string{"shore", "depository"}, noun.Synonyms)
	assert.Equal(t, []domain.TranslationItem{ufer, bankDE}, rec.Translations)

	others, err := repo.FindByWord(ctx, domain.WordQuery{Word: "walk", Edition: edition})
	require.NoError(t, err)
	assert.Len(t, others, 1)

	folded, reconciled = consolidate()
	assert.Zero(t, folded, "second pass has nothing to fold")
	assert.Zero(t, reconciled, "second pass has nothing to rewrite")
}
