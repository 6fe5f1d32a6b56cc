// Package solver runs a deterministic constraint-satisfaction search over a
// *planmodel.Model and returns a satisfying assignment or a definitive
// Infeasible/Timeout verdict. No CP-SAT or SAT-solver binding is available in
// this module's dependency stack (see DESIGN.md), so this is a from-scratch
// backtracking search with per-constraint forward pruning — exact, not
// heuristic, since every constraint here is a hard constraint rather than a
// soft objective to optimize.
package solver

import (
	"errors"
	"math/rand"
	"time"

	"weeklyplan/internal/planmodel"
	"weeklyplan/internal/variant"
)

// Status is the solver's verdict.
type Status int

const (
	StatusFeasible Status = iota
	StatusInfeasible
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Options configures a solve run.
type Options struct {
	Seed    int64
	Timeout time.Duration // 0 means no wall-clock bound
}

// Response is what Solve returns.
type Response struct {
	Status     Status
	Assignment planmodel.Assignment
}

const (
	fishProteinKind = "fish"
	dinnerMeal      = "dinner"
)

var errTimedOut = errors.New("solver: wall-clock bound exceeded")

// Solve searches for an assignment of model.Slots satisfying every
// constraint in §4.4 of the specification. The search is single-threaded and
// deterministic: two calls with the same model and the same Options.Seed
// explore variants in the same order and return the same assignment.
func Solve(model *planmodel.Model, opts Options) (Response, error) {
	s := &search{
		model:        model,
		rng:          rand.New(rand.NewSource(opts.Seed)),
		assignment:   make([]variant.Variant, len(model.Slots)),
		proteinCount: make(map[string]int),
		carbCount:    make(map[string]int),
		recipeCount:  make(map[string]int),
		fishDinner:   make([]bool, 0, len(model.Rules.Days)),
	}
	if opts.Timeout > 0 {
		deadline := time.Now().Add(opts.Timeout)
		s.deadline = &deadline
	}

	ok, err := s.assign(0)
	if err != nil {
		if errors.Is(err, errTimedOut) {
			return Response{Status: StatusTimeout}, nil
		}
		return Response{}, err
	}
	if !ok {
		return Response{Status: StatusInfeasible}, nil
	}
	return Response{Status: StatusFeasible, Assignment: append(planmodel.Assignment(nil), s.assignment...)}, nil
}

type search struct {
	model        *planmodel.Model
	rng          *rand.Rand
	deadline     *time.Time
	assignment   []variant.Variant
	proteinCount map[string]int
	carbCount    map[string]int
	recipeCount  map[string]int
	fishDinner   []bool // index by day, only meaningful once that day's dinner has been assigned
}

func (s *search) timedOut() bool {
	return s.deadline != nil && time.Now().After(*s.deadline)
}

// assign tries to extend a partial assignment covering slots[:idx] to cover
// slots[:idx+1] and recurses. It returns (true, nil) once every slot is
// assigned, (false, nil) if this subtree is exhausted without success, or
// (false, errTimedOut) if the wall-clock bound was hit.
func (s *search) assign(idx int) (bool, error) {
	if idx == len(s.model.Slots) {
		return s.finalCheck(), nil
	}
	if s.timedOut() {
		return false, errTimedOut
	}

	slot := s.model.Slots[idx]
	order := s.shuffledOrder(len(slot.Variants))

	for _, vi := range order {
		v := slot.Variants[vi]
		if !s.feasibleAt(idx, slot, v) {
			continue
		}

		s.place(slot, v)
		ok, err := s.assign(idx + 1)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		s.unplace(slot, v)
	}

	return false, nil
}

// shuffledOrder returns a permutation of [0,n) seeded deterministically from
// s.rng, giving the seed control over search path (and hence, among
// possibly-many satisfying assignments, which one is found first) without
// giving up reproducibility.
func (s *search) shuffledOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	s.rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

// feasibleAt checks every constraint that can be evaluated against a partial
// assignment the moment slot idx is tentatively set to v, per §4.4.
func (s *search) feasibleAt(idx int, slot planmodel.Slot, v variant.Variant) bool {
	// Constraint 1 (partial): never exceed a protein's weekly target.
	target := s.model.Rules.Constraints.WeeklyProteinCounts[v.PrimaryProtein]
	if s.proteinCount[v.PrimaryProtein]+1 > target {
		return false
	}

	// Constraint 2: no consecutive same protein, per meal scope.
	if s.model.Rules.Constraints.NoConsecutiveSameProtein && slot.DayIdx > 0 {
		prevIdx := idx - len(s.model.Rules.Meals)
		if prevIdx >= 0 && s.assignment[prevIdx].Meal == slot.Meal && s.assignment[prevIdx].PrimaryProtein == v.PrimaryProtein {
			return false
		}
	}

	isFishDinner := slot.Meal == dinnerMeal && v.PrimaryProtein == fishProteinKind

	// Constraint 3: fish dinner max per week.
	if isFishDinner {
		count := 0
		for _, f := range s.fishDinner {
			if f {
				count++
			}
		}
		if count+1 > s.model.Rules.Constraints.FishDinnerMaxPerWeek {
			return false
		}
	}

	// Constraint 4: fish dinner max consecutive.
	if slot.Meal == dinnerMeal {
		k := s.model.Rules.Constraints.FishDinnerMaxConsecutive
		window := append(append([]bool{}, s.fishDinner...), isFishDinner)
		if windowExceeds(window, k) {
			return false
		}
	}

	// Constraint 6: carb frequency.
	if v.HasCarb() {
		if limit, ok := s.model.CarbLimit[v.Carb]; ok {
			if s.carbCount[v.Carb]+1 > limit {
				return false
			}
		}
	}

	// Constraint 7: max uses per base recipe.
	if s.recipeCount[v.RecipeID]+1 > s.model.Rules.Constraints.MaxRecipeUsesPerWeek {
		return false
	}

	return true
}

// windowExceeds reports whether any window of length k+1 ending at the last
// element of fish sums to more than k trues.
func windowExceeds(fish []bool, k int) bool {
	start := len(fish) - (k + 1)
	if start < 0 {
		start = 0
	}
	count := 0
	for _, v := range fish[start:] {
		if v {
			count++
		}
	}
	return count > k
}

func (s *search) place(slot planmodel.Slot, v variant.Variant) {
	idx := slot.DayIdx*len(s.model.Rules.Meals) + slot.MealIdx
	s.assignment[idx] = v
	s.proteinCount[v.PrimaryProtein]++
	if v.HasCarb() {
		s.carbCount[v.Carb]++
	}
	s.recipeCount[v.RecipeID]++
	if slot.Meal == dinnerMeal {
		s.fishDinner = append(s.fishDinner, v.PrimaryProtein == fishProteinKind)
	}
}

func (s *search) unplace(slot planmodel.Slot, v variant.Variant) {
	idx := slot.DayIdx*len(s.model.Rules.Meals) + slot.MealIdx
	s.assignment[idx] = variant.Variant{}
	s.proteinCount[v.PrimaryProtein]--
	if v.HasCarb() {
		s.carbCount[v.Carb]--
	}
	s.recipeCount[v.RecipeID]--
	if slot.Meal == dinnerMeal {
		s.fishDinner = s.fishDinner[:len(s.fishDinner)-1]
	}
}

// finalCheck verifies, once every slot is assigned, that each protein's
// weekly count equals its target exactly. Pruning only keeps counts at or
// below their targets; the other constraints are fully enforced by
// feasibleAt and are not re-checked here.
func (s *search) finalCheck() bool {
	for protein, target := range s.model.Rules.Constraints.WeeklyProteinCounts {
		if s.proteinCount[protein] != target {
			return false
		}
	}
	return true
}
