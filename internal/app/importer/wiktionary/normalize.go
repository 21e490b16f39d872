package wiktionary

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/heartmarshall/wiktapi/internal/domain"
)

// Normalizer converts raw source lines into storage rows.
// Now and NewID are injected so the conversion stays deterministic in tests.
type Normalizer struct {
	Classifier Classifier
	Now        func() time.Time
	NewID      func() uuid.UUID
}

// NewNormalizer returns a Normalizer using the default classifier, the wall
// clock and random v4 UUIDs.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		Classifier: DefaultClassifier{},
		Now:        time.Now,
		NewID:      uuid.New,
	}
}

// Normalize decodes one JSONL line from the given edition. It reports false
// when the line must be skipped: invalid JSON, empty word or empty lang_code.
func (n *Normalizer) Normalize(line []byte, edition string) (domain.WordEntry, bool) {
	var e kaikkiEntry
	if err := json.Unmarshal(line, &e); err != nil {
		return domain.WordEntry{}, false
	}
	if e.Word == "" || e.LangCode == "" {
		return domain.WordEntry{}, false
	}

	phonetics := extractPhonetics(e.Sounds)
	var phonetic *string
	if len(phonetics) > 0 {
		phonetic = lo.ToPtr(phonetics[0].Text)
	}

	entry := domain.WordEntry{
		ID:           n.NewID(),
		Word:         e.Word,
		Edition:      edition,
		Phonetic:     phonetic,
		Phonetics:    phonetics,
		Meaning:      extractMeaning(e),
		Translations: extractTranslations(e),
		Tenses:       extractTenses(e.Word, e.Forms),
		CreatedAt:    n.Now().UTC(),
	}
	entry.Category = n.classify(entry)

	return entry, true
}

func (n *Normalizer) classify(entry domain.WordEntry) domain.Category {
	if n.Classifier == nil {
		return domain.DefaultCategory
	}
	c := n.Classifier.Classify(entry)
	if !c.IsValid() {
		return domain.DefaultCategory
	}
	return c
}

func extractPhonetics(sounds []kaikkiSound) []domain.PhoneticItem {
	items := make([]domain.PhoneticItem, 0, len(sounds))
	for _, s := range sounds {
		if s.IPA == "" {
			continue
		}
		typ := domain.PhoneticUK
		if lo.ContainsBy(s.Tags, func(tag string) bool { return strings.EqualFold(tag, "us") }) {
			typ = domain.PhoneticUS
		}
		var audio *string
		switch {
		case s.MP3URL != "":
			audio = lo.ToPtr(s.MP3URL)
		case s.OggURL != "":
			audio = lo.ToPtr(s.OggURL)
		}
		items = append(items, domain.PhoneticItem{Text: s.IPA, Type: typ, AudioURL: audio})
	}
	return items
}

func extractMeaning(e kaikkiEntry) domain.Meaning {
	defs := make([]domain.Definition, 0, len(e.Senses))
	synonyms := linkageWords(e.Synonyms)
	antonyms := linkageWords(e.Antonyms)

	for _, s := range e.Senses {
		synonyms = append(synonyms, linkageWords(s.Synonyms)...)
		antonyms = append(antonyms, linkageWords(s.Antonyms)...)

		if len(s.Glosses) == 0 || s.Glosses[0] == "" {
			continue
		}
		d := domain.Definition{Definition: s.Glosses[0]}
		if len(s.Examples) > 0 && s.Examples[0].Text != "" {
			d.Example = lo.ToPtr(s.Examples[0].Text)
		}
		defs = append(defs, d)
	}

	return domain.Meaning{
		PartOfSpeech: e.POS,
		Definitions:  defs,
		Synonyms:     lo.Uniq(synonyms),
		Antonyms:     lo.Uniq(antonyms),
	}
}

func linkageWords(ls []kaikkiLinkage) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		if l.Word != "" {
			out = append(out, l.Word)
		}
	}
	return out
}

func extractTranslations(e kaikkiEntry) []domain.TranslationItem {
	all := slices.Clone(e.Translations)
	for _, s := range e.Senses {
		all = append(all, s.Translations...)
	}

	items := make([]domain.TranslationItem, 0, len(all))
	for _, t := range all {
		if t.Word == "" {
			continue
		}
		code, langCode := t.Code, t.LangCode
		if code == "" {
			code = langCode
		}
		if langCode == "" {
			langCode = code
		}
		items = append(items, domain.TranslationItem{
			PartOfSpeech: e.POS,
			LangCode:     langCode,
			Code:         code,
			Lang:         t.Lang,
			Word:         t.Word,
		})
	}
	return items
}

// Tag sets are compared exactly, ignoring order: a form tagged
// {present, participle, plural} matches none of them.
var (
	pastTags     = [][]string{{"past"}}
	presentTags  = [][]string{{"present"}, {"participle", "present"}}
	singularTags = [][]string{{"singular"}, {"present", "singular", "third-person"}}
	pluralTags   = [][]string{{"plural"}}
)

func extractTenses(word string, forms []kaikkiForm) *domain.Tenses {
	t := domain.Tenses{
		Base:     word,
		Past:     findForm(forms, pastTags),
		Present:  findForm(forms, presentTags),
		Singular: findForm(forms, singularTags),
		Plural:   findForm(forms, pluralTags),
	}
	if t.Past == "" && t.Present == "" && t.Singular == "" && t.Plural == "" {
		return nil
	}
	return &t
}

// findForm returns the first form whose tag set equals one of want.
func findForm(forms []kaikkiForm, want [][]string) string {
	for _, f := range forms {
		if f.Form == "" {
			continue
		}
		tags := slices.Sorted(slices.Values(lo.Uniq(f.Tags)))
		for _, w := range want {
			if slices.Equal(tags, w) {
				return f.Form
			}
		}
	}
	return ""
}
