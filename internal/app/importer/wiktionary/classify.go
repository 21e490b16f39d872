package wiktionary

import "github.com/heartmarshall/wiktapi/internal/domain"

// Classifier assigns a topical category to a normalized entry.
// Results outside the known category set are replaced with the default.
type Classifier interface {
	Classify(entry domain.WordEntry) domain.Category
}

// DefaultClassifier puts every entry into the general category.
type DefaultClassifier struct{}

func (DefaultClassifier) Classify(domain.WordEntry) domain.Category {
	return domain.DefaultCategory
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(entry domain.WordEntry) domain.Category

func (f ClassifierFunc) Classify(entry domain.WordEntry) domain.Category { return f(entry) }
