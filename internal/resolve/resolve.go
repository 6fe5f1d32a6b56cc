// Package resolve turns a solved, per-slot variant assignment into fully
// quantified slot records: the @portion sentinel is substituted with the
// protein's actual portion size, and carb ingredient lines are synthesized or
// dropped according to the variant's carb choice.
package resolve

import (
	"fmt"

	"github.com/shopspring/decimal"

	"weeklyplan/internal/catalog"
	"weeklyplan/internal/planmodel"
	"weeklyplan/internal/variant"
)

// Line is one fully-resolved ingredient line in a slot record: a concrete
// quantity and unit, with no remaining @portion sentinel.
type Line struct {
	Item    string
	Display string
	Qty     decimal.Decimal
	Unit    catalog.Unit
	Role    catalog.Role
}

// Slot is the resolved record for one (day, meal): the recipe and protein/carb
// choice the solver made, their resolved quantities, and the full resolved
// ingredient list ready for aggregation.
type Slot struct {
	Day            string
	Meal           string
	RecipeID       string
	RecipeName     string
	PrimaryProtein string
	ProteinQty     decimal.Decimal
	Carb           string // "" means none
	CarbQty        decimal.Decimal
	Ingredients    []Line
}

// HasCarb reports whether s has a non-empty carb choice.
func (s Slot) HasCarb() bool {
	return s.Carb != ""
}

// Resolve converts a solved assignment into slot records, per §4.6. It
// returns an error only if the assignment references rules data the model
// guarantees is present — a defensive check, since model.Build and validate
// already guarantee referential soundness of anything the solver could have
// chosen.
func Resolve(cat *catalog.Catalog, model *planmodel.Model, assignment planmodel.Assignment) ([]Slot, error) {
	slots := make([]Slot, 0, len(model.Slots))
	for i, modelSlot := range model.Slots {
		v := assignment[i]
		rs, err := resolveSlot(cat, model.Rules, modelSlot, v)
		if err != nil {
			return nil, err
		}
		slots = append(slots, rs)
	}
	return slots, nil
}

func resolveSlot(cat *catalog.Catalog, rules catalog.Rules, modelSlot planmodel.Slot, v variant.Variant) (Slot, error) {
	proteinQty, ok := rules.ProteinPortions[v.PrimaryProtein][modelSlot.Meal]
	if !ok {
		return Slot{}, fmt.Errorf("resolve %s/%s: no protein_portions entry for %q/%q", modelSlot.Day, modelSlot.Meal, v.PrimaryProtein, modelSlot.Meal)
	}

	lines := make([]Line, 0, len(v.Recipe.Ingredients)+1)
	for _, il := range v.Recipe.Ingredients {
		if il.Quantity.Portion {
			ing, ok := cat.Ingredients[il.Item]
			if !ok {
				return Slot{}, fmt.Errorf("resolve %s/%s: unknown ingredient %q", modelSlot.Day, modelSlot.Meal, il.Item)
			}
			lines = append(lines, Line{
				Item:    il.Item,
				Display: ing.DisplayName,
				Qty:     proteinQty,
				Unit:    ing.Unit,
				Role:    il.Role,
			})
			continue
		}
		if ing, ok := cat.Ingredients[il.Item]; ok && ing.Kind == catalog.KindCarb {
			// Carb-kind lines are entirely replaced below; dropping the
			// recipe-declared one here avoids double-counting or stale units
			// when v.Carb overrides it.
			continue
		}
		ing := cat.Ingredients[il.Item]
		lines = append(lines, Line{
			Item:    il.Item,
			Display: ing.DisplayName,
			Qty:     il.Quantity.Value,
			Unit:    il.Quantity.Unit,
			Role:    il.Role,
		})
	}

	var carbQty decimal.Decimal
	if v.HasCarb() {
		ing, ok := cat.Ingredients[v.Carb]
		if !ok {
			return Slot{}, fmt.Errorf("resolve %s/%s: unknown carb ingredient %q", modelSlot.Day, modelSlot.Meal, v.Carb)
		}
		qty, ok := rules.CarbPortions.Overrides[v.Carb]
		if !ok {
			qty, ok = rules.CarbPortions.DefaultPerMeal[modelSlot.Meal]
			if !ok {
				return Slot{}, fmt.Errorf("resolve %s/%s: no carb_portions.default_per_meal entry for %q", modelSlot.Day, modelSlot.Meal, modelSlot.Meal)
			}
		}
		carbQty = qty
		lines = append(lines, Line{
			Item:    v.Carb,
			Display: ing.DisplayName,
			Qty:     qty,
			Unit:    ing.Unit,
			Role:    catalog.RoleCarb,
		})
	}

	return Slot{
		Day:            modelSlot.Day,
		Meal:           modelSlot.Meal,
		RecipeID:       v.RecipeID,
		RecipeName:     v.Recipe.DisplayName,
		PrimaryProtein: v.PrimaryProtein,
		ProteinQty:     proteinQty,
		Carb:           v.Carb,
		CarbQty:        carbQty,
		Ingredients:    lines,
	}, nil
}
