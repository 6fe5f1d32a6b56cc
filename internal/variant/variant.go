// Package variant expands each recipe into the atomic, fully-specified slot
// variants the solver selects among — one per admissible carb choice at each
// meal the recipe is offered at.
package variant

import (
	"sort"

	"weeklyplan/internal/catalog"
)

// Variant is one atomic choice at a slot: a base recipe paired with a meal
// and a specific carb selection (possibly none).
type Variant struct {
	ID             string // synthetic, unique within the meal's admissible set
	RecipeID       string
	Meal           string
	PrimaryProtein string
	Carb           string // "" means no carb
	Recipe         *catalog.Recipe
}

// HasCarb reports whether v resolves to a non-empty carb choice.
func (v Variant) HasCarb() bool {
	return v.Carb != ""
}

// ExpandAll builds every variant for every recipe in cat, grouped by meal.
// The returned map's slices are ordered deterministically: by recipe id
// (catalog iteration order is not guaranteed by Go maps, so callers that
// need determinism must sort — ExpandAll orders by recipe id and Expand
// orders a recipe's carb variants by carb id with the no-carb variant last,
// to keep the solver's search order reproducible).
func ExpandAll(cat *catalog.Catalog) map[string][]Variant {
	recipeIDs := make([]string, 0, len(cat.Recipes))
	for id := range cat.Recipes {
		recipeIDs = append(recipeIDs, id)
	}
	sort.Strings(recipeIDs)

	byMeal := make(map[string][]Variant)
	for _, id := range recipeIDs {
		recipe := cat.Recipes[id]
		for _, meal := range recipe.MealTypes {
			vs := Expand(&recipe, meal, cat.Rules)
			byMeal[meal] = append(byMeal[meal], vs...)
		}
	}
	return byMeal
}

// Expand builds the slot variants for recipe at meal, per §4.2:
//
//   - allow_carbs=false OR strategy=none: one variant, carb=∅.
//   - strategy=fixed: one variant, carb=default.
//   - strategy=optional AND allow_carbs: one variant per allowed carb, plus
//     one ∅ variant (the "optional + none" reading from §9).
func Expand(recipe *catalog.Recipe, meal string, rules catalog.Rules) []Variant {
	allowCarbs := rules.MealRules[meal].AllowCarbs

	base := Variant{
		RecipeID:       recipe.ID,
		Meal:           meal,
		PrimaryProtein: recipe.PrimaryProtein,
		Recipe:         recipe,
	}

	if !allowCarbs || recipe.Carbs.Strategy == catalog.StrategyNone {
		v := base
		v.Carb = ""
		v.ID = variantID(recipe.ID, meal, "")
		return []Variant{v}
	}

	if recipe.Carbs.Strategy == catalog.StrategyFixed {
		v := base
		v.Carb = recipe.Carbs.Default
		v.ID = variantID(recipe.ID, meal, recipe.Carbs.Default)
		return []Variant{v}
	}

	// strategy == optional
	allowed := append([]string(nil), recipe.Carbs.Allowed...)
	sort.Strings(allowed)

	out := make([]Variant, 0, len(allowed)+1)
	for _, c := range allowed {
		v := base
		v.Carb = c
		v.ID = variantID(recipe.ID, meal, c)
		out = append(out, v)
	}
	none := base
	none.Carb = ""
	none.ID = variantID(recipe.ID, meal, "")
	out = append(out, none)

	return out
}

func variantID(recipeID, meal, carb string) string {
	if carb == "" {
		return recipeID + "/" + meal + "/none"
	}
	return recipeID + "/" + meal + "/" + carb
}
