package catalog

import (
	"sort"

	"weeklyplan/internal/catalogerr"
)

// validate enforces the invariants listed in §3 of the specification against
// an already-parsed (but not yet trusted) Catalog. Id uniqueness (invariant
// 1) is checked by the loader instead, since the Catalog's maps hold one
// entry per id. It never stops at the first violation.
func validate(cat *Catalog, report *catalogerr.Report) {
	validateRecipeReferences(cat, report)
	validateProteinRole(cat, report)
	validatePortionSentinel(cat, report)
	validateCarbStrategy(cat, report)
	validateMealRules(cat, report)
	validateWeeklyProteinSum(cat, report)
	validateProteinPortionsCoverage(cat, report)
}

// validateRecipeReferences enforces invariant 2: every item a recipe
// references exists in the catalog.
func validateRecipeReferences(cat *Catalog, report *catalogerr.Report) {
	for id, recipe := range cat.Recipes {
		for _, line := range recipe.Ingredients {
			if _, ok := cat.Ingredients[line.Item]; !ok {
				report.Referential(id, "ingredient %q referenced by role %q does not exist in catalog", line.Item, line.Role)
			}
		}
	}
}

// validateProteinRole enforces invariant 3: exactly one protein-role
// ingredient per recipe, of kind protein, quantified by @portion.
func validateProteinRole(cat *Catalog, report *catalogerr.Report) {
	for id, recipe := range cat.Recipes {
		var proteinLines []IngredientLine
		for _, line := range recipe.Ingredients {
			if line.Role == RoleProtein {
				proteinLines = append(proteinLines, line)
			}
		}

		switch len(proteinLines) {
		case 0:
			report.Invariant(id, "recipe has no ingredient with role=protein")
		case 1:
			line := proteinLines[0]
			if !line.Quantity.Portion {
				report.Invariant(id, "protein ingredient %q must have quantity @portion", line.Item)
			}
			if ing, ok := cat.Ingredients[line.Item]; ok && ing.Kind != KindProtein {
				report.Invariant(id, "protein ingredient %q must have catalog kind=protein, has %q", line.Item, ing.Kind)
			}
			if recipe.PrimaryProtein != "" && line.Item != "" {
				// PrimaryProtein is a protein *kind* tag, not necessarily the
				// ingredient id; no further structural check beyond coverage
				// (validateProteinPortionsCoverage) is imposed here.
				_ = line
			}
		default:
			report.Invariant(id, "recipe has %d ingredients with role=protein, must have exactly 1", len(proteinLines))
		}
	}
}

// validatePortionSentinel enforces invariant 4: @portion appears nowhere
// except on the single protein-role line.
func validatePortionSentinel(cat *Catalog, report *catalogerr.Report) {
	for id, recipe := range cat.Recipes {
		for _, line := range recipe.Ingredients {
			if line.Quantity.Portion && line.Role != RoleProtein {
				report.Invariant(id, "@portion used on non-protein role %q (item %q)", line.Role, line.Item)
			}
		}
	}
}

// validateCarbStrategy enforces invariants 5, 6 and 7.
func validateCarbStrategy(cat *Catalog, report *catalogerr.Report) {
	for id, recipe := range cat.Recipes {
		var carbLines []IngredientLine
		for _, line := range recipe.Ingredients {
			if ing, ok := cat.Ingredients[line.Item]; ok && ing.Kind == KindCarb {
				carbLines = append(carbLines, line)
			}
		}

		switch recipe.Carbs.Strategy {
		case StrategyNone:
			if len(carbLines) > 0 {
				report.Invariant(id, "strategy=none but recipe lists a carb-kind ingredient")
			}
			if len(recipe.Carbs.Allowed) > 0 || recipe.Carbs.Default != "" {
				report.Invariant(id, "strategy=none must not declare allowed or default")
			}

		case StrategyFixed:
			if recipe.Carbs.Default == "" {
				report.Invariant(id, "strategy=fixed requires default")
				continue
			}
			ing, ok := cat.Ingredients[recipe.Carbs.Default]
			if !ok {
				report.Referential(id, "strategy=fixed default %q does not exist in catalog", recipe.Carbs.Default)
			} else if ing.Kind != KindCarb {
				report.Invariant(id, "strategy=fixed default %q must have kind=carb, has %q", recipe.Carbs.Default, ing.Kind)
			}
			for _, cl := range carbLines {
				if cl.Item != recipe.Carbs.Default {
					report.Invariant(id, "strategy=fixed lists carb ingredient %q different from default %q", cl.Item, recipe.Carbs.Default)
				}
			}

		case StrategyOptional:
			if len(recipe.Carbs.Allowed) == 0 {
				report.Invariant(id, "strategy=optional requires non-empty allowed")
				continue
			}
			defaultInAllowed := false
			for _, a := range recipe.Carbs.Allowed {
				ing, ok := cat.Ingredients[a]
				if !ok {
					report.Referential(id, "strategy=optional allowed %q does not exist in catalog", a)
					continue
				}
				if ing.Kind != KindCarb {
					report.Invariant(id, "strategy=optional allowed %q must have kind=carb, has %q", a, ing.Kind)
				}
				if a == recipe.Carbs.Default {
					defaultInAllowed = true
				}
			}
			if recipe.Carbs.Default == "" {
				report.Invariant(id, "strategy=optional requires default")
			} else if !defaultInAllowed {
				report.Invariant(id, "strategy=optional default %q must be a member of allowed", recipe.Carbs.Default)
			}
		}
	}
}

// validateMealRules enforces the referential half of invariant 8: every meal
// a recipe claims must be declared in rules.meal_rules (and rules.meals).
func validateMealRules(cat *Catalog, report *catalogerr.Report) {
	mealSet := make(map[string]bool, len(cat.Rules.Meals))
	for _, m := range cat.Rules.Meals {
		mealSet[m] = true
	}

	for id, recipe := range cat.Recipes {
		if len(recipe.MealTypes) == 0 {
			report.Invariant(id, "recipe has no meal_types")
		}
		for _, m := range recipe.MealTypes {
			if !mealSet[m] {
				report.Referential(id, "meal_types references unknown meal %q", m)
				continue
			}
			if _, ok := cat.Rules.MealRules[m]; !ok {
				report.Referential(id, "meal %q has no entry in rules.meal_rules", m)
			}
		}
	}
}

// validateWeeklyProteinSum enforces invariant 9.
func validateWeeklyProteinSum(cat *Catalog, report *catalogerr.Report) {
	total := 0
	for _, v := range cat.Rules.Constraints.WeeklyProteinCounts {
		total += v
	}
	want := len(cat.Rules.Days) * len(cat.Rules.Meals)
	if total != want {
		report.Invariant("rules.yml", "constraints.weekly_protein_counts sums to %d, must equal |days|*|meals| = %d", total, want)
	}
}

// FractionalCarbLimits returns every carb ingredient whose max_times_week is
// not an integer, sorted by id. §9 of the specification flags these as an
// open question (a value like 0.5 floors to 0 uses/week) and asks that they
// be surfaced to a human during validation rather than silently accepted.
func FractionalCarbLimits(cat *Catalog) []Ingredient {
	var out []Ingredient
	for _, ing := range cat.Ingredients {
		if ing.MaxTimesWeek == nil {
			continue
		}
		if !ing.MaxTimesWeek.Equal(ing.MaxTimesWeek.Truncate(0)) {
			out = append(out, ing)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// validateProteinPortionsCoverage enforces invariant 10: every protein kind
// used by any recipe has a defined portion for every meal that recipe is
// offered at.
func validateProteinPortionsCoverage(cat *Catalog, report *catalogerr.Report) {
	for id, recipe := range cat.Recipes {
		if recipe.PrimaryProtein == "" {
			continue
		}
		byMeal, ok := cat.Rules.ProteinPortions[recipe.PrimaryProtein]
		if !ok {
			report.Referential(id, "primary_protein %q has no entry in rules.protein_portions", recipe.PrimaryProtein)
			continue
		}
		for _, m := range recipe.MealTypes {
			if _, ok := byMeal[m]; !ok {
				report.Referential(id, "primary_protein %q has no protein_portions entry for meal %q", recipe.PrimaryProtein, m)
			}
		}
	}
}
