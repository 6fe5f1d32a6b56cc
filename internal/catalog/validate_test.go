package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"weeklyplan/internal/catalogerr"
)

func baseCatalog() *Catalog {
	return &Catalog{
		Rules: Rules{
			Days:  []string{"mon", "tue"},
			Meals: []string{"lunch", "dinner"},
			MealRules: map[string]MealRule{
				"lunch":  {AllowCarbs: true},
				"dinner": {AllowCarbs: false},
			},
			ProteinPortions: map[string]map[string]decimal.Decimal{
				"chicken": {"lunch": decimal.NewFromInt(200), "dinner": decimal.NewFromInt(220)},
			},
			Constraints: Constraints{
				WeeklyProteinCounts: map[string]int{"chicken": 4},
			},
		},
		Ingredients: map[string]Ingredient{
			"chicken_breast": {ID: "chicken_breast", Kind: KindProtein, Unit: UnitGrams},
			"rice":           {ID: "rice", Kind: KindCarb, Unit: UnitGrams},
		},
		Pantry:  map[string]bool{},
		Recipes: map[string]Recipe{},
	}
}

func TestValidateProteinRole(t *testing.T) {
	tests := []struct {
		name    string
		lines   []IngredientLine
		wantErr bool
	}{
		{
			name: "exactly one protein line with @portion",
			lines: []IngredientLine{
				{Item: "chicken_breast", Role: RoleProtein, Quantity: Quantity{Portion: true}},
			},
			wantErr: false,
		},
		{
			name:    "no protein line",
			lines:   []IngredientLine{{Item: "rice", Role: RoleCarb, Quantity: Quantity{Value: decimal.NewFromInt(1)}}},
			wantErr: true,
		},
		{
			name: "protein line without @portion",
			lines: []IngredientLine{
				{Item: "chicken_breast", Role: RoleProtein, Quantity: Quantity{Value: decimal.NewFromInt(100), Unit: UnitGrams}},
			},
			wantErr: true,
		},
		{
			name: "two protein lines",
			lines: []IngredientLine{
				{Item: "chicken_breast", Role: RoleProtein, Quantity: Quantity{Portion: true}},
				{Item: "chicken_breast", Role: RoleProtein, Quantity: Quantity{Portion: true}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := baseCatalog()
			cat.Recipes["r"] = Recipe{ID: "r", Ingredients: tt.lines, MealTypes: []string{"lunch"}, Carbs: RecipeCarbs{Strategy: StrategyNone}}
			report := &catalogerr.Report{}
			validateProteinRole(cat, report)
			assert.Equal(t, tt.wantErr, report.HasErrors())
		})
	}
}

func TestValidateCarbStrategy(t *testing.T) {
	tests := []struct {
		name    string
		carbs   RecipeCarbs
		lines   []IngredientLine
		wantErr bool
	}{
		{
			name:  "none with no carb lines",
			carbs: RecipeCarbs{Strategy: StrategyNone},
		},
		{
			name:    "none with a stray carb line",
			carbs:   RecipeCarbs{Strategy: StrategyNone},
			lines:   []IngredientLine{{Item: "rice", Role: RoleCarb, Quantity: Quantity{Value: decimal.NewFromInt(1), Unit: UnitGrams}}},
			wantErr: true,
		},
		{
			name:  "fixed with matching default",
			carbs: RecipeCarbs{Strategy: StrategyFixed, Default: "rice"},
		},
		{
			name:    "fixed missing default",
			carbs:   RecipeCarbs{Strategy: StrategyFixed},
			wantErr: true,
		},
		{
			name:  "optional with default in allowed",
			carbs: RecipeCarbs{Strategy: StrategyOptional, Allowed: []string{"rice"}, Default: "rice"},
		},
		{
			name:    "optional with default outside allowed",
			carbs:   RecipeCarbs{Strategy: StrategyOptional, Allowed: []string{"rice"}, Default: "other_carb"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := baseCatalog()
			cat.Recipes["r"] = Recipe{ID: "r", Carbs: tt.carbs, Ingredients: tt.lines, MealTypes: []string{"lunch"}}
			report := &catalogerr.Report{}
			validateCarbStrategy(cat, report)
			assert.Equal(t, tt.wantErr, report.HasErrors())
		})
	}
}

func TestFractionalCarbLimits(t *testing.T) {
	cat := baseCatalog()
	half := decimal.NewFromFloat(0.5)
	whole := decimal.NewFromInt(3)
	cat.Ingredients["rice"] = Ingredient{ID: "rice", Kind: KindCarb, MaxTimesWeek: &whole}
	cat.Ingredients["pasta"] = Ingredient{ID: "pasta", Kind: KindCarb, MaxTimesWeek: &half}

	got := FractionalCarbLimits(cat)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "pasta", got[0].ID)
	}
}

func TestValidateWeeklyProteinSum(t *testing.T) {
	cat := baseCatalog()
	cat.Rules.Constraints.WeeklyProteinCounts = map[string]int{"chicken": 3}

	report := &catalogerr.Report{}
	validateWeeklyProteinSum(cat, report)
	assert.True(t, report.HasErrors())
}
