// Package grocery suggests a default category for an item name.
package grocery

import "strings"

// Fallback is the default category used when no keyword matches.
const Fallback = "other"

// Suggest returns the id of the default category the item most likely
// belongs to. Matching is case-insensitive: exact names first, then
// keywords contained in the name, in the order listed in substringMatches.
func Suggest(itemName string) string {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return Fallback
	}

	if id, ok := exactMatch[name]; ok {
		return id
	}

	for _, entry := range substringMatches {
		if strings.Contains(name, entry.keyword) {
			return entry.category
		}
	}

	return Fallback
}

var exactMatch = func() map[string]string {
	byCategory := map[string][]string{
		"fruits": {
			"apple", "apples", "banana", "bananas", "orange", "oranges", "lemon", "lemons",
			"lime", "avocado", "tomato", "tomatoes", "potato", "potatoes", "onion", "onions",
			"garlic", "lettuce", "spinach", "kale", "broccoli", "carrot", "carrots", "celery",
			"cucumber", "peppers", "mushrooms", "corn", "grapes", "strawberries", "watermelon",
			"pineapple", "mango", "pear", "cilantro", "basil", "parsley", "ginger", "zucchini",
			"eggplant", "pumpkin", "papaya",
		},
		"dairy": {
			"milk", "cheese", "butter", "yogurt", "cream", "sour cream", "eggs", "egg",
			"cream cheese", "mozzarella", "parmesan",
		},
		"meat": {
			"chicken", "beef", "pork", "ham", "bacon", "sausage", "steak", "turkey",
			"salmon", "tuna", "shrimp", "fish", "ground beef",
		},
		"bakery": {
			"bread", "bagels", "rolls", "croissant", "croissants", "muffins", "tortillas",
			"cake", "baguette",
		},
		"cleaning": {
			"bleach", "detergent", "sponges", "soap", "paper towels", "toilet paper",
			"trash bags", "shampoo", "toothpaste", "deodorant",
		},
		"drinks": {
			"water", "coffee", "tea", "juice", "soda", "beer", "wine", "sparkling water",
		},
		"canned": {
			"beans", "chickpeas", "corned beef", "sardines", "olives", "tomato paste",
			"peanut butter", "rice", "pasta", "flour", "sugar",
		},
		"frozen": {
			"ice cream", "frozen peas", "ice", "popsicles", "frozen pizza",
		},
	}
	m := make(map[string]string)
	for id, names := range byCategory {
		for _, n := range names {
			m[n] = id
		}
	}
	return m
}()

type keyword struct {
	keyword  string
	category string
}

// Ordered so that more specific keywords win: "frozen" before anything it
// may be attached to, drink phrases before the fruit they are made from,
// and "shampoo" before "ham".
var substringMatches = []keyword{
	{"frozen", "frozen"},
	{"ice cream", "frozen"},
	{"popsicle", "frozen"},

	{"canned", "canned"},
	{" can", "canned"},
	{"tinned", "canned"},
	{"peanut butter", "canned"},
	{"tomato paste", "canned"},
	{"tomato sauce", "canned"},

	{"juice", "drinks"},
	{"sparkling water", "drinks"},
	{"soda", "drinks"},

	{"shampoo", "cleaning"},
	{"conditioner", "cleaning"},
	{"toothpaste", "cleaning"},
	{"paper towel", "cleaning"},
	{"toilet paper", "cleaning"},
	{"trash bag", "cleaning"},
	{"dish soap", "cleaning"},
	{"laundry", "cleaning"},
	{"detergent", "cleaning"},
	{"cleaner", "cleaning"},
	{"bleach", "cleaning"},
	{"sponge", "cleaning"},
	{"soap", "cleaning"},

	{"chicken", "meat"},
	{"beef", "meat"},
	{"pork", "meat"},
	{"steak", "meat"},
	{"bacon", "meat"},
	{"sausage", "meat"},
	{"turkey", "meat"},
	{"salmon", "meat"},
	{"shrimp", "meat"},
	{"fish", "meat"},
	{"ham", "meat"},

	{"yogurt", "dairy"},
	{"cheese", "dairy"},
	{"milk", "dairy"},
	{"butter", "dairy"},
	{"cream", "dairy"},
	{"egg", "dairy"},

	{"bread", "bakery"},
	{"bagel", "bakery"},
	{"croissant", "bakery"},
	{"muffin", "bakery"},
	{"tortilla", "bakery"},
	{"bun", "bakery"},
	{"cake", "bakery"},

	{"melon", "fruits"},
	{"berries", "fruits"},
	{"apple", "fruits"},
	{"banana", "fruits"},
	{"orange", "fruits"},
	{"lemon", "fruits"},
	{"tomato", "fruits"},
	{"potato", "fruits"},
	{"onion", "fruits"},
	{"lettuce", "fruits"},
	{"spinach", "fruits"},
	{"pepper", "fruits"},
	{"mushroom", "fruits"},
	{"carrot", "fruits"},
	{"fruit", "fruits"},
	{"vegetable", "fruits"},

	{"coffee", "drinks"},
	{"water", "drinks"},
	{"beer", "drinks"},
	{"wine", "drinks"},
	{"tea", "drinks"},

	{"rice", "canned"},
	{"pasta", "canned"},
	{"bean", "canned"},
	{"soup", "canned"},
}
