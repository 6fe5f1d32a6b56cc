package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/shopspring/decimal"
	"weeklyplan/internal/catalogerr"
)

// Load parses and validates the four declarative inputs under dataDir into a
// Catalog. Load is total: on success, every invariant in §3 of the
// specification holds for the returned Catalog; on failure it returns a
// *catalogerr.Report listing every violation found in one pass and a nil
// Catalog.
func Load(dataDir string) (*Catalog, error) {
	report := &catalogerr.Report{}

	rules, ingredients, pantry, recipes := loadAll(dataDir, report)

	cat := &Catalog{
		Rules:       rules,
		Ingredients: ingredients,
		Pantry:      pantry,
		Recipes:     recipes,
	}

	validate(cat, report)

	if report.HasErrors() {
		return nil, report
	}
	return cat, nil
}

func loadAll(dataDir string, report *catalogerr.Report) (Rules, map[string]Ingredient, map[string]bool, map[string]Recipe) {
	rules := loadRules(filepath.Join(dataDir, "rules.yml"), report)
	ingredients := loadIngredients(filepath.Join(dataDir, "ingredients.yml"), report)
	pantry := loadPantry(filepath.Join(dataDir, "pantry.yml"), report)
	recipes := loadRecipes(filepath.Join(dataDir, "recipes"), report)
	return rules, ingredients, pantry, recipes
}

func readFile(path string, report *catalogerr.Report) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		report.Schema(path, "failed to read file: %v", err)
		return nil, false
	}
	return data, true
}

func loadRules(path string, report *catalogerr.Report) Rules {
	data, ok := readFile(path, report)
	if !ok {
		return Rules{}
	}

	var raw rawRules
	if err := decodeStrict(data, &raw); err != nil {
		report.Schema(path, "%v", err)
		return Rules{}
	}

	mealRules := make(map[string]MealRule, len(raw.MealRules))
	for meal, mr := range raw.MealRules {
		mealRules[meal] = MealRule{AllowCarbs: mr.AllowCarbs}
	}

	proteinPortions := make(map[string]map[string]decimal.Decimal, len(raw.ProteinPortions))
	for protein, byMeal := range raw.ProteinPortions {
		converted := make(map[string]decimal.Decimal, len(byMeal))
		for meal, s := range byMeal {
			qty, err := decimal.NewFromString(s)
			if err != nil {
				report.Schema(path, "protein_portions.%s.%s: invalid quantity %q", protein, meal, s)
				continue
			}
			converted[meal] = qty
		}
		proteinPortions[protein] = converted
	}

	defaultPerMeal := make(map[string]decimal.Decimal, len(raw.CarbPortions.DefaultPerMeal))
	for meal, s := range raw.CarbPortions.DefaultPerMeal {
		qty, err := decimal.NewFromString(s)
		if err != nil {
			report.Schema(path, "carb_portions.default_per_meal.%s: invalid quantity %q", meal, s)
			continue
		}
		defaultPerMeal[meal] = qty
	}

	overrides := make(map[string]decimal.Decimal, len(raw.CarbPortions.Overrides))
	for item, s := range raw.CarbPortions.Overrides {
		qty, err := decimal.NewFromString(s)
		if err != nil {
			report.Schema(path, "carb_portions.overrides.%s: invalid quantity %q", item, s)
			continue
		}
		overrides[item] = qty
	}

	return Rules{
		Days:            raw.Days,
		Meals:           raw.Meals,
		MealRules:       mealRules,
		ProteinPortions: proteinPortions,
		CarbPortions: CarbPortions{
			DefaultPerMeal: defaultPerMeal,
			Overrides:      overrides,
		},
		Constraints: Constraints{
			WeeklyProteinCounts:      raw.Constraints.WeeklyProteinCounts,
			NoConsecutiveSameProtein: raw.Constraints.NoConsecutiveSameProtein,
			FishDinnerMaxPerWeek:     raw.Constraints.FishDinnerMaxPerWeek,
			FishDinnerMaxConsecutive: raw.Constraints.FishDinnerMaxConsecutive,
			MaxRecipeUsesPerWeek:     raw.Constraints.MaxRecipeUsesPerWeek,
		},
	}
}

var validUnits = map[string]Unit{
	"grams":       UnitGrams,
	"milliliters": UnitMilliliters,
	"units":       UnitUnits,
}

var validSections = map[string]Section{
	"protein":   SectionProtein,
	"carb":      SectionCarb,
	"vegetable": SectionVegetable,
	"dairy":     SectionDairy,
	"fat":       SectionFat,
	"condiment": SectionCondiment,
	"spice":     SectionSpice,
	"other":     SectionOther,
}

var validKinds = map[string]Kind{
	"protein": KindProtein,
	"carb":    KindCarb,
	"other":   KindOther,
}

func loadIngredients(path string, report *catalogerr.Report) map[string]Ingredient {
	result := make(map[string]Ingredient)

	data, ok := readFile(path, report)
	if !ok {
		return result
	}

	var raw rawIngredientsFile
	if err := decodeStrict(data, &raw); err != nil {
		report.Schema(path, "%v", err)
		return result
	}

	seen := make(map[string]bool)
	for i, ri := range raw.Ingredients {
		src := fmt.Sprintf("%s[%d]", path, i)
		if ri.ID == "" {
			report.Schema(src, "ingredient missing id")
			continue
		}
		if seen[ri.ID] {
			report.Invariant(src, "duplicate ingredient id %q", ri.ID)
			continue
		}
		seen[ri.ID] = true

		unit, ok := validUnits[ri.Unit]
		if !ok {
			report.Schema(src, "ingredient %q: invalid unit %q", ri.ID, ri.Unit)
			continue
		}
		section, ok := validSections[ri.Section]
		if !ok {
			report.Schema(src, "ingredient %q: invalid section %q", ri.ID, ri.Section)
			continue
		}
		kind, ok := validKinds[ri.Kind]
		if !ok {
			report.Schema(src, "ingredient %q: invalid kind %q", ri.ID, ri.Kind)
			continue
		}

		if kind != KindCarb && (ri.DefaultQty != nil || ri.MaxTimesWeek != nil) {
			report.Schema(src, "ingredient %q: default_qty/max_times_week only valid for kind=carb", ri.ID)
			continue
		}

		result[ri.ID] = Ingredient{
			ID:           ri.ID,
			DisplayName:  ri.Name,
			Unit:         unit,
			Section:      section,
			Kind:         kind,
			DefaultQty:   ri.DefaultQty,
			MaxTimesWeek: ri.MaxTimesWeek,
		}
	}

	return result
}

func loadPantry(path string, report *catalogerr.Report) map[string]bool {
	result := make(map[string]bool)

	data, ok := readFile(path, report)
	if !ok {
		return result
	}

	var raw rawPantryFile
	if err := decodeStrict(data, &raw); err != nil {
		report.Schema(path, "%v", err)
		return result
	}

	for _, id := range raw.Pantry {
		result[id] = true
	}
	return result
}

var validRoles = map[string]Role{
	"protein":   RoleProtein,
	"carb":      RoleCarb,
	"veg":       RoleVeg,
	"fat":       RoleFat,
	"dairy":     RoleDairy,
	"condiment": RoleCondiment,
	"spice":     RoleSpice,
	"other":     RoleOther,
}

var validStrategies = map[string]CarbStrategy{
	"none":     StrategyNone,
	"fixed":    StrategyFixed,
	"optional": StrategyOptional,
}

func loadRecipes(dir string, report *catalogerr.Report) map[string]Recipe {
	result := make(map[string]Recipe)

	entries, err := os.ReadDir(dir)
	if err != nil {
		report.Schema(dir, "failed to read recipes directory: %v", err)
		return result
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yml" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		data, ok := readFile(path, report)
		if !ok {
			continue
		}

		var raw rawRecipe
		if err := decodeStrict(data, &raw); err != nil {
			report.Schema(path, "%v", err)
			continue
		}

		recipe, ok := convertRecipe(path, raw, report)
		if !ok {
			continue
		}

		if _, exists := result[recipe.ID]; exists {
			report.Invariant(path, "duplicate recipe id %q", recipe.ID)
			continue
		}
		result[recipe.ID] = recipe
	}

	return result
}

func convertRecipe(path string, raw rawRecipe, report *catalogerr.Report) (Recipe, bool) {
	if raw.ID == "" {
		report.Schema(path, "recipe missing id")
		return Recipe{}, false
	}

	strategy, ok := validStrategies[raw.Carbs.Strategy]
	if !ok {
		report.Schema(path, "recipe %q: invalid carbs.strategy %q", raw.ID, raw.Carbs.Strategy)
		return Recipe{}, false
	}

	lines := make([]IngredientLine, 0, len(raw.Ingredients))
	ok = true
	for i, rl := range raw.Ingredients {
		src := fmt.Sprintf("%s ingredients[%d]", path, i)
		role, validRole := validRoles[rl.Role]
		if !validRole {
			report.Schema(src, "recipe %q: invalid role %q", raw.ID, rl.Role)
			ok = false
			continue
		}
		if !rl.Quantity.set {
			report.Schema(src, "recipe %q: ingredient %q missing quantity", raw.ID, rl.Item)
			ok = false
			continue
		}
		q := Quantity{Portion: rl.Quantity.Portion}
		if !rl.Quantity.Portion {
			unit, validUnit := validUnits[rl.Quantity.Unit]
			if !validUnit {
				report.Schema(src, "recipe %q: ingredient %q invalid unit %q", raw.ID, rl.Item, rl.Quantity.Unit)
				ok = false
				continue
			}
			q.Value = rl.Quantity.Value
			q.Unit = unit
		}
		lines = append(lines, IngredientLine{
			Item:     rl.Item,
			Role:     role,
			Quantity: q,
		})
	}
	if !ok {
		return Recipe{}, false
	}

	return Recipe{
		ID:             raw.ID,
		DisplayName:    raw.Name,
		MealTypes:      raw.MealTypes,
		PrimaryProtein: raw.PrimaryProtein,
		Carbs: RecipeCarbs{
			Strategy: strategy,
			Allowed:  raw.Carbs.Allowed,
			Default:  raw.Carbs.Default,
		},
		Ingredients: lines,
	}, true
}
