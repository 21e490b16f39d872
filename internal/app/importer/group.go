package importer

import (
	"slices"

	"github.com/samber/lo"

	"github.com/heartmarshall/wiktapi/internal/domain"
)

// foldGroup collapses rows of one (edition, word) that share a part of
// speech into the first of them, so a word has one row per part of speech.
// Definitions are concatenated in input order; synonyms, antonyms and
// translations become their first-seen union. It returns the folded group
// and the number of rows absorbed.
func foldGroup(group []domain.WordEntry) ([]domain.WordEntry, int) {
	if len(group) < 2 {
		return group, 0
	}

	index := make(map[string]int, len(group))
	out := group[:0]
	absorbed := 0

	for _, e := range group {
		pos := e.Meaning.PartOfSpeech
		i, ok := index[pos]
		if !ok {
			index[pos] = len(out)
			out = append(out, e)
			continue
		}

		keep := &out[i]
		keep.Meaning.Definitions = append(slices.Clip(keep.Meaning.Definitions), e.Meaning.Definitions...)
		keep.Meaning.Synonyms = lo.Uniq(append(slices.Clip(keep.Meaning.Synonyms), e.Meaning.Synonyms...))
		keep.Meaning.Antonyms = lo.Uniq(append(slices.Clip(keep.Meaning.Antonyms), e.Meaning.Antonyms...))
		keep.Translations = lo.Uniq(append(slices.Clip(keep.Translations), e.Translations...))
		if keep.Tenses == nil {
			keep.Tenses = e.Tenses
		}
		if keep.Phonetic == nil && e.Phonetic != nil {
			keep.Phonetic = e.Phonetic
			keep.Phonetics = e.Phonetics
		}
		absorbed++
	}
	return out, absorbed
}

// reconcileGroup makes rows of one (edition, word) agree on the word-level
// scalars: tenses, phonetic/phonetics, category and created_at. Merging rows
// at read time relies on this. The store applies the same rule to rows of a
// word that were not adjacent in the input (words.Repo.Consolidate).
func reconcileGroup(group []domain.WordEntry) {
	if len(group) < 2 {
		return
	}

	first := group[0]

	var tenses *domain.Tenses
	for _, e := range group {
		if e.Tenses != nil {
			tenses = e.Tenses
			break
		}
	}

	phon := first
	for _, e := range group {
		if e.Phonetic != nil {
			phon = e
			break
		}
	}

	for i := range group {
		group[i].Tenses = tenses
		group[i].Phonetic = phon.Phonetic
		group[i].Phonetics = phon.Phonetics
		group[i].Category = first.Category
		group[i].CreatedAt = first.CreatedAt
	}
}

func sameWord(a, b domain.WordEntry) bool {
	return a.Word == b.Word && a.Edition == b.Edition
}
