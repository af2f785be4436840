package models

// Category is the closed set of product categories.
type Category string

const (
	CategoryMerchandise Category = "merchandise"
	CategoryCigarettes  Category = "cigarettes"
	CategoryTopUp       Category = "top_up"

	// CategoryUnknown labels sales whose product no longer exists.
	// It is never stored on a product.
	CategoryUnknown Category = "unknown"
)

// DefaultCategory is assigned when a category is omitted or unrecognised.
const DefaultCategory = CategoryMerchandise

var categories = map[Category]struct{}{
	CategoryMerchandise: {},
	CategoryCigarettes:  {},
	CategoryTopUp:       {},
}

// Valid reports whether c is one of the storable categories.
func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// ParseCategory maps s onto a storable category, falling back to
// DefaultCategory for anything it does not recognise.
func ParseCategory(s string) Category {
	if c := Category(s); c.Valid() {
		return c
	}
	return DefaultCategory
}
