// Package shopping aggregates resolved slot ingredient lines into a
// pantry-excluded, section-grouped shopping list, and computes the
// per-protein and per-carb derived summaries that accompany the plan.
package shopping

import (
	"sort"

	"github.com/shopspring/decimal"

	"weeklyplan/internal/catalog"
	"weeklyplan/internal/resolve"
)

// Line is one aggregated shopping-list entry.
type Line struct {
	Item    string
	Display string
	Qty     decimal.Decimal
	Unit    catalog.Unit
}

// List groups aggregated lines by section, omitting any section left empty
// after pantry exclusion.
type List struct {
	Sections map[catalog.Section][]Line
}

type key struct {
	item string
	unit catalog.Unit
}

// Aggregate sums every resolved ingredient line across slots by (item, unit),
// drops any item present in pantry, and groups the rest by section, each
// section's lines ordered by display name in codepoint order. Per §4.7.
func Aggregate(cat *catalog.Catalog, slots []resolve.Slot) List {
	sums := make(map[key]decimal.Decimal)
	for _, s := range slots {
		for _, line := range s.Ingredients {
			k := key{item: line.Item, unit: line.Unit}
			sums[k] = sums[k].Add(line.Qty)
		}
	}

	bySection := make(map[catalog.Section][]Line)
	for k, total := range sums {
		if cat.Pantry[k.item] {
			continue
		}
		ing, ok := cat.Ingredients[k.item]
		if !ok {
			continue
		}
		bySection[ing.Section] = append(bySection[ing.Section], Line{
			Item:    k.item,
			Display: ing.DisplayName,
			Qty:     total,
			Unit:    k.unit,
		})
	}

	for section, lines := range bySection {
		sort.Slice(lines, func(i, j int) bool { return lines[i].Display < lines[j].Display })
		bySection[section] = lines
	}

	return List{Sections: bySection}
}

// ProteinCounts returns, for each primary protein, the number of slots it was
// assigned to.
func ProteinCounts(slots []resolve.Slot) map[string]int {
	counts := make(map[string]int)
	for _, s := range slots {
		counts[s.PrimaryProtein]++
	}
	return counts
}

// CarbCounts returns, for each non-empty carb choice, the number of slots it
// was assigned to. The none/∅ choice is excluded, per §4.7.
func CarbCounts(slots []resolve.Slot) map[string]int {
	counts := make(map[string]int)
	for _, s := range slots {
		if s.HasCarb() {
			counts[s.Carb]++
		}
	}
	return counts
}
