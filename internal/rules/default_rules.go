package rules

import "github.com/pantryops/aisleflow/internal/model"

// DefaultRules returns the built-in rule table. Table order is load-bearing:
// meat before produce so "chicken breast" lands in Meat, not Produce via
// some broader keyword. Keywords are matched against normalized keys, so
// singular forms cover plurals.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category: model.CategoryMeat,
			Keywords: []string{"chicken", "beef", "pork", "steak", "bacon", "sausage", "turkey", "ham", "lamb"},
		},
		{
			Category: model.CategorySeafood,
			Keywords: []string{"salmon", "shrimp", "tuna", "cod", "crab", "lobster", "scallop"},
		},
		{
			Category: model.CategoryProduce,
			Keywords: []string{"banana", "apple", "spinach", "lettuce", "tomato", "onion", "potato", "carrot", "berry", "fruit", "vegetable"},
		},
		{
			Category: model.CategoryDairy,
			Keywords: []string{"milk", "yogurt", "cheese", "butter", "cream", "egg"},
		},
		{
			Category: model.CategoryBakery,
			Keywords: []string{"bread", "bagel", "sourdough", "bun", "roll", "croissant"},
		},
		{
			Category: model.CategoryFrozen,
			Keywords: []string{"ice cream", "popsicle", "frozen", "ice-cream", "icecream"},
		},
		{
			Category: model.CategoryPantry,
			Keywords: []string{"rice", "pasta", "canned", "bean", "sauce", "oil", "vinegar", "flour", "sugar", "spice", "cereal"},
		},
		{
			Category: model.CategorySnacks,
			Keywords: []string{"chip", "cracker", "cookie", "chocolate", "popcorn", "granola"},
		},
		{
			Category: model.CategoryBeverages,
			Keywords: []string{"juice", "soda", "cola", "water", "beer", "wine", "coffee", "tea"},
		},
		{
			Category: model.CategoryHousehold,
			Keywords: []string{"detergent", "paper towel", "toilet paper", "trash bag", "cleaner", "bleach", "dish soap"},
		},
		{
			Category: model.CategoryPersonalCare,
			Keywords: []string{"shampoo", "soap", "toothpaste", "deodorant", "razor", "lotion", "conditioner"},
		},
	}
}
