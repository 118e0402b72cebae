package plan

import (
	"fmt"
	"strings"
)

// requiredMealFields lists the per-meal text fields the model must fill, in
// the order violations are reported.
var requiredMealFields = []string{"day", "meal_type", "name", "description", "benefits"}

// Validate checks the structural contract of a parsed candidate before any
// expensive downstream stage runs. The first violation aborts validation.
// Violations are the model's fault, not the client's, so they surface as
// ordinary generation errors.
func Validate(candidate *CandidatePlan) error {
	if candidate == nil {
		return fmt.Errorf("invalid plan structure: plan is empty")
	}
	if len(candidate.Meals) == 0 {
		return fmt.Errorf("invalid plan structure: plan contains no meals")
	}
	if candidate.ShoppingList == nil {
		return fmt.Errorf("invalid plan structure: shopping_list must be an array")
	}

	for i, meal := range candidate.Meals {
		if field, ok := missingMealField(meal); !ok {
			return fmt.Errorf("invalid plan structure: meal %d: missing field %q", i, field)
		}
	}

	return nil
}

// missingMealField returns the first required field the meal lacks.
func missingMealField(meal CandidateMeal) (string, bool) {
	values := map[string]*string{
		"day":         meal.Day,
		"meal_type":   meal.MealType,
		"name":        meal.Name,
		"description": meal.Description,
		"benefits":    meal.Benefits,
	}
	for _, field := range requiredMealFields {
		v := values[field]
		if v == nil || strings.TrimSpace(*v) == "" {
			return field, false
		}
	}
	return "", true
}
