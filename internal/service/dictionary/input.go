package dictionary

import (
	"errors"
	"strings"

	"github.com/heartmarshall/wiktapi/internal/domain"
)

// LookupInput holds the parameters of a single word lookup.
type LookupInput struct {
	Word     string
	Category string
	Edition  string
}

// Normalize trims surrounding whitespace from every field.
func (i *LookupInput) Normalize() {
	i.Word = strings.TrimSpace(i.Word)
	i.Category = strings.TrimSpace(i.Category)
	i.Edition = strings.TrimSpace(i.Edition)
}

// Validate checks all fields and collects all errors.
func (i *LookupInput) Validate() error {
	var errs []domain.FieldError

	if i.Word == "" {
		errs = append(errs, domain.FieldError{Field: "word", Message: "required"})
	} else if len(i.Word) > 500 {
		errs = append(errs, domain.FieldError{Field: "word", Message: "too long (max 500)"})
	}
	errs = appendCategoryError(errs, i.Category)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i *LookupInput) query() domain.WordQuery {
	return domain.WordQuery{Word: i.Word, Category: i.Category, Edition: i.Edition}
}

// SearchInput holds the parameters of a prefix search.
type SearchInput struct {
	Query    string
	Category string
}

func (i *SearchInput) Normalize() {
	i.Query = strings.TrimSpace(i.Query)
	i.Category = strings.TrimSpace(i.Category)
}

func (i *SearchInput) Validate() error {
	var errs []domain.FieldError

	if i.Query == "" {
		errs = append(errs, domain.FieldError{Field: "q", Message: "required"})
	} else if len(i.Query) > 500 {
		errs = append(errs, domain.FieldError{Field: "q", Message: "too long (max 500)"})
	}
	errs = appendCategoryError(errs, i.Category)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListInput holds the parameters of the paginated listing. Page and Limit are
// clamped rather than rejected.
type ListInput struct {
	Page     int
	Limit    int
	Category string
	Edition  string
}

func (i *ListInput) Validate() error {
	errs := appendCategoryError(nil, i.Category)
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func appendCategoryError(errs []domain.FieldError, category string) []domain.FieldError {
	if category == "" {
		return errs
	}
	var ve *domain.ValidationError
	if _, err := domain.ParseCategory(category); errors.As(err, &ve) {
		errs = append(errs, ve.Errors...)
	}
	return errs
}
