// Package artifact serializes a solved, resolved plan to plan.json and
// shopping_list.json, writing each atomically (write to a temp file in the
// target directory, then rename) so a reader never observes a partially
// written file. No library in this module's dependency stack offers atomic
// file replace, and the stdlib's os.Rename already gives atomic replace
// semantics on the same filesystem, so this stays on the standard library
// rather than reaching for a third-party dependency (see DESIGN.md).
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/shopspring/decimal"

	"weeklyplan/internal/catalog"
	"weeklyplan/internal/resolve"
	"weeklyplan/internal/shopping"
)

// decimal.Decimal marshals to a quoted JSON string by default; §6 pins
// quantity fields (proteinQty, qty, quantity) as bare numbers, so flip the
// package-wide switch once here, where the JSON contract is owned.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type planDoc struct {
	Seed    int64       `json:"seed"`
	Slots   []planSlot  `json:"slots"`
	Derived planDerived `json:"derived"`
}

type planSlot struct {
	Day         string           `json:"day"`
	Meal        string           `json:"meal"`
	RecipeID    string           `json:"recipeId"`
	RecipeName  string           `json:"recipeName"`
	Protein     string           `json:"protein"`
	ProteinQty  decimal.Decimal  `json:"proteinQty"`
	Carb        string           `json:"carb"`
	CarbQty     *decimal.Decimal `json:"carbQty"`
	Ingredients []planIngredient `json:"ingredients"`
}

type planIngredient struct {
	Item    string          `json:"item"`
	Display string          `json:"display"`
	Qty     decimal.Decimal `json:"qty"`
	Unit    catalog.Unit    `json:"unit"`
	Role    catalog.Role    `json:"role"`
}

type planDerived struct {
	ProteinCounts map[string]int `json:"protein_counts"`
	CarbCounts    map[string]int `json:"carb_counts"`
}

type shoppingDoc struct {
	Sections map[string][]shoppingLine `json:"sections"`
}

type shoppingLine struct {
	Item     string          `json:"item"`
	Display  string          `json:"display"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     catalog.Unit    `json:"unit"`
}

// WritePlan serializes slots (in model slot order, which is already
// day-major/meal-minor per §6) and the derived summaries to
// <outDir>/plan.json.
func WritePlan(outDir string, seed int64, slots []resolve.Slot) error {
	doc := planDoc{
		Seed:  seed,
		Slots: make([]planSlot, 0, len(slots)),
		Derived: planDerived{
			ProteinCounts: shopping.ProteinCounts(slots),
			CarbCounts:    shopping.CarbCounts(slots),
		},
	}

	for _, s := range slots {
		ps := planSlot{
			Day:        s.Day,
			Meal:       s.Meal,
			RecipeID:   s.RecipeID,
			RecipeName: s.RecipeName,
			Protein:    s.PrimaryProtein,
			ProteinQty: s.ProteinQty,
			Carb:       "none",
		}
		if s.HasCarb() {
			ps.Carb = s.Carb
			qty := s.CarbQty
			ps.CarbQty = &qty
		}
		for _, line := range s.Ingredients {
			ps.Ingredients = append(ps.Ingredients, planIngredient{
				Item:    line.Item,
				Display: line.Display,
				Qty:     line.Qty,
				Unit:    line.Unit,
				Role:    line.Role,
			})
		}
		doc.Slots = append(doc.Slots, ps)
	}

	return writeJSON(filepath.Join(outDir, "plan.json"), doc)
}

// WriteShoppingList serializes list to <outDir>/shopping_list.json, omitting
// any section left empty after pantry exclusion.
func WriteShoppingList(outDir string, list shopping.List) error {
	doc := shoppingDoc{Sections: make(map[string][]shoppingLine, len(list.Sections))}

	sectionNames := make([]string, 0, len(list.Sections))
	for section := range list.Sections {
		sectionNames = append(sectionNames, string(section))
	}
	sort.Strings(sectionNames)

	for _, name := range sectionNames {
		lines := list.Sections[catalog.Section(name)]
		if len(lines) == 0 {
			continue
		}
		out := make([]shoppingLine, 0, len(lines))
		for _, l := range lines {
			out = append(out, shoppingLine{
				Item:     l.Item,
				Display:  l.Display,
				Quantity: l.Qty,
				Unit:     l.Unit,
			})
		}
		doc.Sections[name] = out
	}

	return writeJSON(filepath.Join(outDir, "shopping_list.json"), doc)
}

// writeJSON marshals v with stable indentation and writes it atomically: a
// temp file in the same directory as path is written and fsynced, then
// renamed over path, so a concurrent reader (or a crash mid-write) never
// observes a truncated file.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*"+filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into place %s: %w", path, err)
	}
	return nil
}
