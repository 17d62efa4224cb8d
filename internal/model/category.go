// Package model defines the core data structures for the aisleflow application.
package model

import (
	"fmt"
	"strings"
)

// Category is a semantic grocery classification, independent of any
// particular store. The set of categories is closed: classifiers may only
// select from it, and anything else is a configuration or provider bug.
type Category string

// The closed category enumeration.
const (
	CategoryProduce      Category = "Produce"
	CategoryMeat         Category = "Meat"
	CategorySeafood      Category = "Seafood"
	CategoryDeli         Category = "Deli"
	CategoryDairy        Category = "Dairy"
	CategoryBakery       Category = "Bakery"
	CategoryFrozen       Category = "Frozen"
	CategoryPantry       Category = "Pantry"
	CategorySnacks       Category = "Snacks"
	CategoryBeverages    Category = "Beverages"
	CategoryHousehold    Category = "Household"
	CategoryPersonalCare Category = "Personal Care"
	CategoryMisc         Category = "Misc"
)

// CategoryUnclassified is the sentinel returned when no classifier could
// place an item. It is not part of the closed enumeration and is never a
// valid result from the fallback classifier.
const CategoryUnclassified Category = "Unclassified"

// Categories returns the closed enumeration in its canonical order.
func Categories() []Category {
	return []Category{
		CategoryProduce,
		CategoryMeat,
		CategorySeafood,
		CategoryDeli,
		CategoryDairy,
		CategoryBakery,
		CategoryFrozen,
		CategoryPantry,
		CategorySnacks,
		CategoryBeverages,
		CategoryHousehold,
		CategoryPersonalCare,
		CategoryMisc,
	}
}

// ParseCategory resolves a string to a member of the closed enumeration,
// matching case-insensitively. It returns an error for anything outside
// the set, including the Unclassified sentinel.
func ParseCategory(s string) (Category, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	if want == "" {
		return "", fmt.Errorf("category name cannot be empty")
	}
	for _, c := range Categories() {
		if strings.ToLower(string(c)) == want {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// Valid reports whether c is a member of the closed enumeration.
func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

func (c Category) String() string {
	return string(c)
}
