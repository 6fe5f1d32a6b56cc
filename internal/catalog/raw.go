package catalog

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// The raw* types mirror the YAML wire format exactly (snake_case keys,
// loosely typed) before §4.1 validation converts them into the typed model
// in types.go. Keeping the two separate means the loader can reject an
// unknown field or a type mismatch as a schema error without the domain
// types ever being exposed to a malformed document.

type rawIngredientsFile struct {
	Ingredients []rawIngredient `yaml:"ingredients"`
}

type rawIngredient struct {
	ID           string           `yaml:"id"`
	Name         string           `yaml:"name"`
	Unit         string           `yaml:"unit"`
	Section      string           `yaml:"section"`
	Kind         string           `yaml:"kind"`
	DefaultQty   *decimal.Decimal `yaml:"default_qty,omitempty"`
	MaxTimesWeek *decimal.Decimal `yaml:"max_times_week,omitempty"`
}

type rawPantryFile struct {
	Pantry []string `yaml:"pantry"`
}

type rawRules struct {
	Days            []string                     `yaml:"days"`
	Meals           []string                     `yaml:"meals"`
	MealRules       map[string]rawMealRule       `yaml:"meal_rules"`
	ProteinPortions map[string]map[string]string `yaml:"protein_portions"`
	CarbPortions    rawCarbPortions              `yaml:"carb_portions"`
	Constraints     rawConstraints               `yaml:"constraints"`
}

type rawMealRule struct {
	AllowCarbs bool `yaml:"allow_carbs"`
}

type rawCarbPortions struct {
	DefaultPerMeal map[string]string `yaml:"default_per_meal"`
	Overrides      map[string]string `yaml:"overrides"`
}

type rawConstraints struct {
	WeeklyProteinCounts      map[string]int `yaml:"weekly_protein_counts"`
	NoConsecutiveSameProtein bool           `yaml:"no_consecutive_same_protein"`
	FishDinnerMaxPerWeek     int            `yaml:"fish_dinner_max_per_week"`
	FishDinnerMaxConsecutive int            `yaml:"fish_dinner_max_consecutive"`
	MaxRecipeUsesPerWeek     int            `yaml:"max_recipe_uses_per_week"`
}

type rawRecipe struct {
	ID             string              `yaml:"id"`
	Name           string              `yaml:"name"`
	MealTypes      []string            `yaml:"meal_types"`
	PrimaryProtein string              `yaml:"primary_protein"`
	Carbs          rawRecipeCarbs      `yaml:"carbs"`
	Ingredients    []rawIngredientLine `yaml:"ingredients"`
}

type rawRecipeCarbs struct {
	Strategy string   `yaml:"strategy"`
	Allowed  []string `yaml:"allowed,omitempty"`
	Default  string   `yaml:"default,omitempty"`
}

type rawIngredientLine struct {
	Item     string      `yaml:"item"`
	Role     string      `yaml:"role"`
	Quantity rawQuantity `yaml:"quantity"`
}

// rawQuantity decodes either the bare scalar "@portion" or a mapping
// {value, unit}. This is the only place the @portion token is recognized;
// §9 of the specification requires it be rejected everywhere else, which the
// loader enforces by checking Role == protein wherever Portion is true.
type rawQuantity struct {
	Portion bool
	Value   decimal.Decimal
	Unit    string
	set     bool
}

const portionSentinel = "@portion"

func (q *rawQuantity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		if s != portionSentinel {
			return fmt.Errorf("quantity scalar must be %q, got %q", portionSentinel, s)
		}
		q.Portion = true
		q.set = true
		return nil
	}

	var lit struct {
		Value decimal.Decimal `yaml:"value"`
		Unit  string          `yaml:"unit"`
	}
	if err := node.Decode(&lit); err != nil {
		return fmt.Errorf("quantity must be %q or {value, unit}: %w", portionSentinel, err)
	}
	q.Value = lit.Value
	q.Unit = lit.Unit
	q.set = true
	return nil
}

// decodeStrict parses data into out, rejecting unknown fields.
func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}
