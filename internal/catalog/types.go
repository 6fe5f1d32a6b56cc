// Package catalog defines the typed in-memory model for the four declarative
// inputs (rules, ingredients, pantry, recipes) and the loader that parses and
// validates them.
package catalog

import (
	"github.com/shopspring/decimal"
)

// Unit is the physical unit an ingredient quantity is expressed in.
type Unit string

const (
	UnitGrams       Unit = "grams"
	UnitMilliliters Unit = "milliliters"
	UnitUnits       Unit = "units"
)

// Section groups an ingredient for shopping-list display.
type Section string

const (
	SectionProtein   Section = "protein"
	SectionCarb      Section = "carb"
	SectionVegetable Section = "vegetable"
	SectionDairy     Section = "dairy"
	SectionFat       Section = "fat"
	SectionCondiment Section = "condiment"
	SectionSpice     Section = "spice"
	SectionOther     Section = "other"
)

// Kind is the dietary role of an ingredient that the constraint model cares
// about; most ingredients are Kind = other and never participate in a
// constraint.
type Kind string

const (
	KindProtein Kind = "protein"
	KindCarb    Kind = "carb"
	KindOther   Kind = "other"
)

// Role is the function an ingredient line plays within a specific recipe.
type Role string

const (
	RoleProtein   Role = "protein"
	RoleCarb      Role = "carb"
	RoleVeg       Role = "veg"
	RoleFat       Role = "fat"
	RoleDairy     Role = "dairy"
	RoleCondiment Role = "condiment"
	RoleSpice     Role = "spice"
	RoleOther     Role = "other"
)

// CarbStrategy is how a recipe relates to carbohydrate choice.
type CarbStrategy string

const (
	StrategyNone     CarbStrategy = "none"
	StrategyFixed    CarbStrategy = "fixed"
	StrategyOptional CarbStrategy = "optional"
)

// Ingredient is a canonical catalog entry.
type Ingredient struct {
	ID           string
	DisplayName  string
	Unit         Unit
	Section      Section
	Kind         Kind
	DefaultQty   *decimal.Decimal // carb-kind only, optional
	MaxTimesWeek *decimal.Decimal // carb-kind only, optional, may be fractional
}

// MealRule is the per-meal policy from rules.yml.
type MealRule struct {
	AllowCarbs bool
}

// CarbPortions holds the global carb quantity rules.
type CarbPortions struct {
	DefaultPerMeal map[string]decimal.Decimal // meal -> qty
	Overrides      map[string]decimal.Decimal // ingredient id -> qty
}

// Constraints holds the weekly hard-constraint parameters.
type Constraints struct {
	WeeklyProteinCounts      map[string]int
	NoConsecutiveSameProtein bool
	FishDinnerMaxPerWeek     int
	FishDinnerMaxConsecutive int
	MaxRecipeUsesPerWeek     int
}

// Rules is the parsed rules.yml.
type Rules struct {
	Days            []string
	Meals           []string
	MealRules       map[string]MealRule
	ProteinPortions map[string]map[string]decimal.Decimal // protein kind -> meal -> qty
	CarbPortions    CarbPortions
	Constraints     Constraints
}

// DayIndex returns the position of day in r.Days, or -1.
func (r Rules) DayIndex(day string) int {
	for i, d := range r.Days {
		if d == day {
			return i
		}
	}
	return -1
}

// MealIndex returns the position of meal in r.Meals, or -1.
func (r Rules) MealIndex(meal string) int {
	for i, m := range r.Meals {
		if m == meal {
			return i
		}
	}
	return -1
}

// Quantity is the tagged-variant quantity of a recipe ingredient line: either
// the @portion sentinel (resolved later from global rules) or a literal
// value+unit pinned in the recipe itself.
type Quantity struct {
	Portion bool
	Value   decimal.Decimal
	Unit    Unit
}

// IngredientLine is one entry in a recipe's ingredient list.
type IngredientLine struct {
	Item     string
	Role     Role
	Quantity Quantity
}

// RecipeCarbs is a recipe's declared carbohydrate strategy.
type RecipeCarbs struct {
	Strategy CarbStrategy
	Allowed  []string // required iff Strategy == optional
	Default  string   // required iff Strategy in {fixed, optional}
}

// Recipe is a parsed recipe definition.
type Recipe struct {
	ID             string
	DisplayName    string
	MealTypes      []string
	PrimaryProtein string
	Carbs          RecipeCarbs
	Ingredients    []IngredientLine
}

// Catalog is the frozen, validated in-memory model produced by Load. Every
// invariant in §3 of the specification holds for any Catalog returned by a
// successful Load.
type Catalog struct {
	Rules       Rules
	Ingredients map[string]Ingredient
	Pantry      map[string]bool
	Recipes     map[string]Recipe
}
