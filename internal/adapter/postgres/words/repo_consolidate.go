package words

import (
	"context"
	"fmt"

	postgres "github.com/heartmarshall/wiktapi/internal/adapter/postgres"
)

// dupPOS selects, per (word, part of speech) with more than one row in an
// edition, the row that survives folding: the earliest one.
const dupPOS = `
	SELECT word, meaning->>'partOfSpeech' AS pos, min(seq) AS keep_seq
	FROM words
	WHERE edition = $1
	GROUP BY word, meaning->>'partOfSpeech'
	HAVING count(*) > 1`

// reconcileSQL rewrites the shared columns of every multi-row word from its
// rows in insertion order: tenses from the first row that has them,
// phonetic and phonetics from the first row with a phonetic (else the
// first row), category and created_at from the first row.
const reconcileSQL = `
WITH canon AS (
	SELECT word,
		(array_agg(tenses ORDER BY seq) FILTER (WHERE tenses IS NOT NULL))[1] AS tenses,
		(array_agg(phonetic ORDER BY seq) FILTER (WHERE phonetic IS NOT NULL))[1] AS phonetic,
		coalesce(
			(array_agg(phonetics ORDER BY seq) FILTER (WHERE phonetic IS NOT NULL))[1],
			(array_agg(phonetics ORDER BY seq))[1]
		) AS phonetics,
		(array_agg(category ORDER BY seq))[1] AS category,
		(array_agg(created_at ORDER BY seq))[1] AS created_at
	FROM words
	WHERE edition = $1
	GROUP BY word
	HAVING count(*) > 1
)
UPDATE words w
SET tenses = c.tenses,
	phonetic = c.phonetic,
	phonetics = c.phonetics,
	category = c.category,
	created_at = c.created_at
FROM canon c
WHERE w.edition = $1
	AND w.word = c.word
	AND (w.tenses IS DISTINCT FROM c.tenses
		OR w.phonetic IS DISTINCT FROM c.phonetic
		OR w.phonetics IS DISTINCT FROM c.phonetics
		OR w.category IS DISTINCT FROM c.category
		OR w.created_at IS DISTINCT FROM c.created_at)`

// foldSQL writes into each surviving row the concatenated definitions and
// the first-seen union of synonyms, antonyms and translations of its
// duplicates.
var foldSQL = fmt.Sprintf(`
WITH dup AS (%s),
src AS (
	SELECT d.keep_seq, w.seq, w.meaning, w.translations
	FROM dup d
	JOIN words w
		ON w.edition = $1
		AND w.word = d.word
		AND w.meaning->>'partOfSpeech' IS NOT DISTINCT FROM d.pos
),
folded AS (
	SELECT k.keep_seq,
		(SELECT coalesce(jsonb_agg(e.v ORDER BY s.seq, e.n), '[]'::jsonb)
			FROM src s, jsonb_array_elements(%s) WITH ORDINALITY AS e(v, n)
			WHERE s.keep_seq = k.keep_seq) AS definitions,
		%s AS synonyms,
		%s AS antonyms,
		%s AS translations
	FROM (SELECT DISTINCT keep_seq FROM src) k
)
UPDATE words w
SET meaning = w.meaning || jsonb_build_object(
		'definitions', f.definitions,
		'synonyms', f.synonyms,
		'antonyms', f.antonyms),
	translations = f.translations
FROM folded f
WHERE w.seq = f.keep_seq`,
	dupPOS,
	jsonArray("s.meaning->'definitions'"),
	uniqueElements("s.meaning->'synonyms'"),
	uniqueElements("s.meaning->'antonyms'"),
	uniqueElements("s.translations"),
)

var deleteFoldedSQL = fmt.Sprintf(`
DELETE FROM words w
USING (%s) d
WHERE w.edition = $1
	AND w.word = d.word
	AND w.meaning->>'partOfSpeech' IS NOT DISTINCT FROM d.pos
	AND w.seq <> d.keep_seq`, dupPOS)

// jsonArray yields expr when it is a JSON array and [] otherwise.
func jsonArray(expr string) string {
	return fmt.Sprintf(`CASE jsonb_typeof(%[1]s) WHEN 'array' THEN %[1]s ELSE '[]'::jsonb END`, expr)
}

// uniqueElements aggregates the array at expr over the src rows of one
// keep_seq, keeping each element once in first-seen order.
func uniqueElements(expr string) string {
	return fmt.Sprintf(`(SELECT coalesce(jsonb_agg(u.v ORDER BY u.seq, u.n), '[]'::jsonb)
			FROM (SELECT DISTINCT ON (e.v) e.v, s.seq, e.n
				FROM src s, jsonb_array_elements(%s) WITH ORDINALITY AS e(v, n)
				WHERE s.keep_seq = k.keep_seq
				ORDER BY e.v, s.seq, e.n) u)`, jsonArray(expr))
}

// Consolidate repairs the rows of one edition after a load: rows sharing
// (word, part of speech) are folded into the earliest one, and every row of
// a word gets the same shared columns. Batches only see adjacent input
// lines, so this covers unsorted input and repeated imports of an edition.
// Call it inside TxManager.RunInTx; the three statements must commit
// together.
func (r *Repo) Consolidate(ctx context.Context, edition string) (folded, reconciled int, err error) {
	q := r.q(ctx)

	// Shared columns first, so folding away a row cannot drop tenses or a
	// phonetic that only it carried.
	tag, err := q.Exec(ctx, reconcileSQL, edition)
	if err != nil {
		return 0, 0, postgres.MapError(err, "reconcile edition", edition)
	}
	reconciled = int(tag.RowsAffected())

	if _, err := q.Exec(ctx, foldSQL, edition); err != nil {
		return 0, 0, postgres.MapError(err, "fold edition", edition)
	}

	tag, err = q.Exec(ctx, deleteFoldedSQL, edition)
	if err != nil {
		return 0, 0, postgres.MapError(err, "fold edition", edition)
	}
	return int(tag.RowsAffected()), reconciled, nil
}
