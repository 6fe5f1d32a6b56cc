package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weeklyplan/internal/catalog"
)

func rulesWithAllowCarbs(lunch, dinner bool) catalog.Rules {
	return catalog.Rules{
		Meals: []string{"lunch", "dinner"},
		MealRules: map[string]catalog.MealRule{
			"lunch":  {AllowCarbs: lunch},
			"dinner": {AllowCarbs: dinner},
		},
	}
}

func TestExpand_StrategyNone(t *testing.T) {
	recipe := &catalog.Recipe{ID: "r1", PrimaryProtein: "chicken", Carbs: catalog.RecipeCarbs{Strategy: catalog.StrategyNone}}
	vs := Expand(recipe, "lunch", rulesWithAllowCarbs(true, true))
	require.Len(t, vs, 1)
	assert.Equal(t, "", vs[0].Carb)
	assert.False(t, vs[0].HasCarb())
}

func TestExpand_MealDisallowsCarbs(t *testing.T) {
	recipe := &catalog.Recipe{ID: "r1", PrimaryProtein: "chicken", Carbs: catalog.RecipeCarbs{Strategy: catalog.StrategyOptional, Allowed: []string{"rice"}, Default: "rice"}}
	vs := Expand(recipe, "dinner", rulesWithAllowCarbs(true, false))
	require.Len(t, vs, 1)
	assert.Equal(t, "", vs[0].Carb)
}

func TestExpand_StrategyFixed(t *testing.T) {
	recipe := &catalog.Recipe{ID: "r1", PrimaryProtein: "chicken", Carbs: catalog.RecipeCarbs{Strategy: catalog.StrategyFixed, Default: "rice"}}
	vs := Expand(recipe, "lunch", rulesWithAllowCarbs(true, true))
	require.Len(t, vs, 1)
	assert.Equal(t, "rice", vs[0].Carb)
}

func TestExpand_StrategyOptional_IncludesNoneVariant(t *testing.T) {
	recipe := &catalog.Recipe{
		ID:             "r1",
		PrimaryProtein: "chicken",
		Carbs:          catalog.RecipeCarbs{Strategy: catalog.StrategyOptional, Allowed: []string{"rice", "quinoa"}, Default: "rice"},
	}
	vs := Expand(recipe, "lunch", rulesWithAllowCarbs(true, true))
	require.Len(t, vs, 3)

	carbs := make(map[string]bool)
	for _, v := range vs {
		carbs[v.Carb] = true
	}
	assert.True(t, carbs["rice"])
	assert.True(t, carbs["quinoa"])
	assert.True(t, carbs[""])
}

func TestExpand_DeterministicOrder(t *testing.T) {
	recipe := &catalog.Recipe{
		ID:             "r1",
		PrimaryProtein: "chicken",
		Carbs:          catalog.RecipeCarbs{Strategy: catalog.StrategyOptional, Allowed: []string{"quinoa", "rice"}, Default: "rice"},
	}
	rules := rulesWithAllowCarbs(true, true)
	first := Expand(recipe, "lunch", rules)
	second := Expand(recipe, "lunch", rules)
	assert.Equal(t, first, second)
	assert.Equal(t, "quinoa", first[0].Carb)
	assert.Equal(t, "rice", first[1].Carb)
	assert.Equal(t, "", first[2].Carb)
}

func TestExpandAll_GroupsByMeal(t *testing.T) {
	cat := &catalog.Catalog{
		Rules: rulesWithAllowCarbs(true, false),
		Recipes: map[string]catalog.Recipe{
			"lunch_recipe":  {ID: "lunch_recipe", PrimaryProtein: "chicken", MealTypes: []string{"lunch"}, Carbs: catalog.RecipeCarbs{Strategy: catalog.StrategyNone}},
			"dinner_recipe": {ID: "dinner_recipe", PrimaryProtein: "fish", MealTypes: []string{"dinner"}, Carbs: catalog.RecipeCarbs{Strategy: catalog.StrategyNone}},
		},
	}

	byMeal := ExpandAll(cat)
	assert.Len(t, byMeal["lunch"], 1)
	assert.Len(t, byMeal["dinner"], 1)
	assert.Equal(t, "lunch_recipe", byMeal["lunch"][0].RecipeID)
}
