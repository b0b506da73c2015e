package domain

import "strings"

// cuisineTags is the allowlist of category tags that name a cuisine.
var cuisineTags = map[string]struct{}{
	"japanese_restaurant":       {},
	"chinese_restaurant":        {},
	"italian_restaurant":        {},
	"mexican_restaurant":        {},
	"indian_restaurant":         {},
	"thai_restaurant":           {},
	"vietnamese_restaurant":     {},
	"korean_restaurant":         {},
	"french_restaurant":         {},
	"american_restaurant":       {},
	"mediterranean_restaurant":  {},
	"middle_eastern_restaurant": {},
	"seafood_restaurant":        {},
	"steakhouse":                {},
	"pizza_restaurant":          {},
	"sushi_restaurant":          {},
	"bakery":                    {},
	"bar":                       {},
}

// ExtractCuisineType returns the first allowlisted cuisine among the place's
// category tags, with the "_restaurant" suffix removed and underscores turned
// into spaces. The second result is false when no tag matches.
func ExtractCuisineType(types []string) (string, bool) {
	for _, t := range types {
		if _, ok := cuisineTags[t]; !ok {
			continue
		}
		name := strings.TrimSuffix(t, "_restaurant")
		return strings.ReplaceAll(name, "_", " "), true
	}
	return "", false
}

// CuisinePtr is ExtractCuisineType shaped for JSON: nil when absent.
func CuisinePtr(types []string) *string {
	c, ok := ExtractCuisineType(types)
	if !ok {
		return nil
	}
	return &c
}
