// Package planmodel builds the decision-variable model the solver searches
// over: one categorical choice per (day, meal) slot, ranging over the
// admissible variants for that meal.
package planmodel

import (
	"fmt"
	"sort"

	"weeklyplan/internal/catalog"
	"weeklyplan/internal/variant"
)

// Slot is a (day, meal) pair and its admissible variant domain.
type Slot struct {
	Day      string
	Meal     string
	DayIdx   int
	MealIdx  int
	Variants []variant.Variant
}

// Model is the full decision-variable model for one run: the ordered list of
// slots (in day-major, meal-minor order matching the output slot order), the
// rules it must satisfy, and the precomputed per-carb weekly ceilings.
type Model struct {
	Slots     []Slot
	Rules     catalog.Rules
	CarbLimit map[string]int // carb ingredient id -> floor(max_times_week); absent means unlimited
}

// Build constructs the Model for cat. It returns an error naming any slot
// whose admissible variant set is empty — an invariant violation surfaced at
// build time rather than left for the solver to discover as a confusing
// infeasibility.
func Build(cat *catalog.Catalog) (*Model, error) {
	byMeal := variant.ExpandAll(cat)

	var slots []Slot
	var emptySlots []string
	for dayIdx, day := range cat.Rules.Days {
		for mealIdx, meal := range cat.Rules.Meals {
			vs := byMeal[meal]
			if len(vs) == 0 {
				emptySlots = append(emptySlots, fmt.Sprintf("%s/%s", day, meal))
			}
			slots = append(slots, Slot{
				Day:      day,
				Meal:     meal,
				DayIdx:   dayIdx,
				MealIdx:  mealIdx,
				Variants: vs,
			})
		}
	}

	if len(emptySlots) > 0 {
		sort.Strings(emptySlots)
		return nil, fmt.Errorf("no admissible recipe variant for slot(s): %v", emptySlots)
	}

	return &Model{Slots: slots, Rules: cat.Rules, CarbLimit: carbLimits(cat)}, nil
}

// carbLimits computes floor(max_times_week) for every carb ingredient that
// declares one. §4.4 constraint 6: a fractional limit floors down, so a
// declared 0.5 means the carb may never be scheduled in a single week.
func carbLimits(cat *catalog.Catalog) map[string]int {
	limits := make(map[string]int)
	for id, ing := range cat.Ingredients {
		if ing.Kind != catalog.KindCarb || ing.MaxTimesWeek == nil {
			continue
		}
		limits[id] = int(ing.MaxTimesWeek.IntPart())
	}
	return limits
}

// Assignment maps each slot index (into Model.Slots) to the chosen variant.
type Assignment []variant.Variant

// ProteinCount returns, for each protein kind, the number of slots assigned
// to it.
func (a Assignment) ProteinCount() map[string]int {
	counts := make(map[string]int)
	for _, v := range a {
		counts[v.PrimaryProtein]++
	}
	return counts
}

// CarbCount returns, for each non-empty carb choice, the number of slots
// assigned to it.
func (a Assignment) CarbCount() map[string]int {
	counts := make(map[string]int)
	for _, v := range a {
		if v.HasCarb() {
			counts[v.Carb]++
		}
	}
	return counts
}

// RecipeCount returns, for each base recipe id, the number of slots using it
// (summed across all of that recipe's variants — see §9 recipe/variant
// duality).
func (a Assignment) RecipeCount() map[string]int {
	counts := make(map[string]int)
	for _, v := range a {
		counts[v.RecipeID]++
	}
	return counts
}
