package planmodel

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weeklyplan/internal/catalog"
)

func sampleCatalog() *catalog.Catalog {
	three := decimal.NewFromInt(3)
	return &catalog.Catalog{
		Rules: catalog.Rules{
			Days:  []string{"mon", "tue"},
			Meals: []string{"lunch", "dinner"},
			MealRules: map[string]catalog.MealRule{
				"lunch":  {AllowCarbs: true},
				"dinner": {AllowCarbs: false},
			},
		},
		Ingredients: map[string]catalog.Ingredient{
			"rice": {ID: "rice", Kind: catalog.KindCarb, MaxTimesWeek: &three},
		},
		Recipes: map[string]catalog.Recipe{
			"chicken_lunch":  {ID: "chicken_lunch", PrimaryProtein: "chicken", MealTypes: []string{"lunch"}, Carbs: catalog.RecipeCarbs{Strategy: catalog.StrategyNone}},
			"chicken_dinner": {ID: "chicken_dinner", PrimaryProtein: "chicken", MealTypes: []string{"dinner"}, Carbs: catalog.RecipeCarbs{Strategy: catalog.StrategyNone}},
		},
	}
}

func TestBuild_ProducesDayMajorMealMinorSlots(t *testing.T) {
	model, err := Build(sampleCatalog())
	require.NoError(t, err)
	require.Len(t, model.Slots, 4)

	want := [][2]string{{"mon", "lunch"}, {"mon", "dinner"}, {"tue", "lunch"}, {"tue", "dinner"}}
	for i, w := range want {
		assert.Equal(t, w[0], model.Slots[i].Day)
		assert.Equal(t, w[1], model.Slots[i].Meal)
	}
}

func TestBuild_CarbLimitFromIngredient(t *testing.T) {
	model, err := Build(sampleCatalog())
	require.NoError(t, err)
	assert.Equal(t, 3, model.CarbLimit["rice"])
}

func TestBuild_EmptyAdmissibleSetIsAnError(t *testing.T) {
	cat := sampleCatalog()
	delete(cat.Recipes, "chicken_dinner")

	_, err := Build(cat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dinner")
}

func TestAssignment_DerivedCounts(t *testing.T) {
	recipe := &catalog.Recipe{ID: "chicken_lunch", DisplayName: "Chicken"}
	a := Assignment{
		{RecipeID: "chicken_lunch", PrimaryProtein: "chicken", Carb: "rice", Recipe: recipe},
		{RecipeID: "chicken_lunch", PrimaryProtein: "chicken", Carb: "", Recipe: recipe},
		{RecipeID: "fish_dinner", PrimaryProtein: "fish", Carb: "", Recipe: recipe},
	}

	assert.Equal(t, map[string]int{"chicken": 2, "fish": 1}, a.ProteinCount())
	assert.Equal(t, map[string]int{"rice": 1}, a.CarbCount())
	assert.Equal(t, map[string]int{"chicken_lunch": 2, "fish_dinner": 1}, a.RecipeCount())
}
