package fragments

import "github.com/goliatone/go-relnotes/pkg/interfaces"

// CategorySpec carries the presentation attributes of a recognised category.
type CategorySpec struct {
	Category interfaces.Category
	// Heading is the section title used in generated release notes.
	Heading string
	// Breaking marks categories rendered as breaking changes.
	Breaking bool
	// Rank fixes the section order; lower ranks render first.
	Rank int
}

var categorySpecs = map[interfaces.Category]CategorySpec{
	interfaces.CategorySignificant: {
		Category: interfaces.CategorySignificant,
		Heading:  "Significant Changes",
		Breaking: true,
		Rank:     0,
	},
	interfaces.CategoryFeature: {
		Category: interfaces.CategoryFeature,
		Heading:  "New Features",
		Rank:     1,
	},
	interfaces.CategoryImprovement: {
		Category: interfaces.CategoryImprovement,
		Heading:  "Improvements",
		Rank:     2,
	},
	interfaces.CategoryBugfix: {
		Category: interfaces.CategoryBugfix,
		Heading:  "Bug Fixes",
		Rank:     3,
	},
	interfaces.CategoryDoc: {
		Category: interfaces.CategoryDoc,
		Heading:  "Doc Only Changes",
		Rank:     4,
	},
	interfaces.CategoryMisc: {
		Category: interfaces.CategoryMisc,
		Heading:  "Miscellaneous",
		Rank:     5,
	},
}

// Spec returns the presentation attributes for a category. The boolean is
// false for categories outside the recognised set.
func Spec(category interfaces.Category) (CategorySpec, bool) {
	spec, ok := categorySpecs[category]
	return spec, ok
}

// Specs returns every recognised category spec ordered by rank.
func Specs() []CategorySpec {
	out := make([]CategorySpec, 0, len(categorySpecs))
	for _, category := range interfaces.KnownCategories() {
		out = append(out, categorySpecs[category])
	}
	return out
}
