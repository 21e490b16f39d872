package domain

// Category is a closed-set topical tag, orthogonal to part of speech.
type Category string

const (
	CategoryTechnology  Category = "technology"
	CategoryBusiness    Category = "business"
	CategoryTravel      Category = "travel"
	CategoryMusic       Category = "music"
	CategoryMovies      Category = "movies"
	CategorySports      Category = "sports"
	CategoryFood        Category = "food"
	CategoryArt         Category = "art"
	CategoryScience     Category = "science"
	CategoryHealth      Category = "health"
	CategoryFashion     Category = "fashion"
	CategoryGaming      Category = "gaming"
	CategoryBooks       Category = "books"
	CategoryNature      Category = "nature"
	CategoryPhotography Category = "photography"
	CategoryEducation   Category = "education"
	CategoryHistory     Category = "history"
	CategoryPolitics    Category = "politics"
	CategoryAutomotive  Category = "automotive"
	CategoryPets        Category = "pets"
	CategoryGeneral     Category = "general"
)

// DefaultCategory is assigned when no classifier decides otherwise.
const DefaultCategory = CategoryGeneral

var allCategories = []Category{
	CategoryTechnology, CategoryBusiness, CategoryTravel, CategoryMusic,
	CategoryMovies, CategorySports, CategoryFood, CategoryArt,
	CategoryScience, CategoryHealth, CategoryFashion, CategoryGaming,
	CategoryBooks, CategoryNature, CategoryPhotography, CategoryEducation,
	CategoryHistory, CategoryPolitics, CategoryAutomotive, CategoryPets,
	CategoryGeneral,
}

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory returns the category for s, or ErrValidation wrapped in a
// ValidationError when s is not one of the known values.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", NewValidationError("category", "unknown category "+s)
	}
	return c, nil
}

// PhoneticType is the regional variant of a pronunciation.
type PhoneticType string

const (
	PhoneticUK PhoneticType = "uk"
	PhoneticUS PhoneticType = "us"
)

func (p PhoneticType) String() string { return string(p) }
