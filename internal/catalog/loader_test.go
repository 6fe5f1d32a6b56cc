package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weeklyplan/internal/catalogerr"
)

func TestLoad_Sample(t *testing.T) {
	cat, err := Load("../../testdata/sample")
	require.NoError(t, err)
	require.NotNil(t, cat)

	assert.ElementsMatch(t, []string{"mon", "tue"}, cat.Rules.Days)
	assert.ElementsMatch(t, []string{"lunch", "dinner"}, cat.Rules.Meals)
	assert.Len(t, cat.Recipes, 4)
	assert.Len(t, cat.Ingredients, 5)
	assert.True(t, cat.Pantry["salt"])
	assert.False(t, cat.Pantry["rice"])
}

func TestLoad_MissingDataDir(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)

	var report *catalogerr.Report
	require.ErrorAs(t, err, &report)
	assert.True(t, report.HasErrors())
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rules.yml", sampleRulesYAML+"\nbogus_field: true\n")
	writeFile(t, dir, "ingredients.yml", "ingredients: []\n")
	writeFile(t, dir, "pantry.yml", "pantry: []\n")

	_, err := Load(dir)
	require.Error(t, err)

	var report *catalogerr.Report
	require.ErrorAs(t, err, &report)
	found := false
	for _, d := range report.Diagnostics {
		if d.Kind == catalogerr.KindSchema {
			found = true
		}
	}
	assert.True(t, found, "expected a schema diagnostic for the unknown field")
}

func TestLoad_DuplicateIngredientID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rules.yml", sampleRulesYAML)
	writeFile(t, dir, "ingredients.yml", `ingredients:
  - id: salt
    name: "Salt"
    unit: grams
    section: spice
    kind: other
  - id: salt
    name: "Salt again"
    unit: grams
    section: spice
    kind: other
`)
	writeFile(t, dir, "pantry.yml", "pantry: []\n")

	_, err := Load(dir)
	require.Error(t, err)

	var report *catalogerr.Report
	require.ErrorAs(t, err, &report)
	found := false
	for _, d := range report.Diagnostics {
		if d.Kind == catalogerr.KindInvariant {
			found = true
		}
	}
	assert.True(t, found, "expected an invariant diagnostic for the duplicate id")
}

const sampleRulesYAML = `days: [mon, tue]
meals: [lunch, dinner]
meal_rules:
  lunch: {allow_carbs: true}
  dinner: {allow_carbs: false}
protein_portions:
  chicken: {lunch: "200", dinner: "220"}
constraints:
  weekly_protein_counts: {chicken: 4}
  no_consecutive_same_protein: false
  fish_dinner_max_per_week: 0
  fish_dinner_max_consecutive: 0
  max_recipe_uses_per_week: 4
`

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}
