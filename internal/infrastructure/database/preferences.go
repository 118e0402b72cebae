package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"mealplan-generator/internal/core/plan"
)

// PreferenceRepository persists user preferences. The generation pipeline
// only reads through it; writes come from the onboarding surface.
type PreferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a preference repository.
func NewPreferenceRepository(d *DB) *PreferenceRepository {
	return &PreferenceRepository{db: d.SQL}
}

// GetByUserID returns the stored preferences, or nil when the user has not
// completed the survey yet.
func (r *PreferenceRepository) GetByUserID(ctx context.Context, userID string) (*plan.Preferences, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, goal, diet_type, activity_level, allergies, dislikes,
		       cooking_skill, budget, max_cooking_minutes, household_size,
		       meal_complexity, flavor_preferences, cuisine_preferences,
		       meals_per_day, notes, age, weight_kg, height_cm, sex
		FROM preferences WHERE user_id = ?`, userID)

	var p plan.Preferences
	var allergies, dislikes, flavors, cuisines string
	err := row.Scan(&p.UserID, &p.Goal, &p.DietType, &p.ActivityLevel, &allergies, &dislikes,
		&p.CookingSkill, &p.Budget, &p.MaxCookingMinutes, &p.HouseholdSize,
		&p.MealComplexity, &flavors, &cuisines,
		&p.MealsPerDay, &p.Notes, &p.Age, &p.WeightKg, &p.HeightCm, &p.Sex)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read preferences for user %s: %w", userID, err)
	}

	pairs := []struct {
		raw    string
		target *[]string
	}{
		{allergies, &p.Allergies},
		{dislikes, &p.Dislikes},
		{flavors, &p.FlavorPreferences},
		{cuisines, &p.CuisinePreferences},
	}
	for _, pair := range pairs {
		if err := json.Unmarshal([]byte(pair.raw), pair.target); err != nil {
			return nil, fmt.Errorf("failed to unmarshal preference arrays: %w", err)
		}
	}

	return &p, nil
}

// Upsert creates or replaces the preferences row for a user.
func (r *PreferenceRepository) Upsert(ctx context.Context, p *plan.Preferences) error {
	allergies, err := json.Marshal(emptyIfNil(p.Allergies))
	if err != nil {
		return fmt.Errorf("failed to marshal allergies: %w", err)
	}
	dislikes, err := json.Marshal(emptyIfNil(p.Dislikes))
	if err != nil {
		return fmt.Errorf("failed to marshal dislikes: %w", err)
	}
	flavors, err := json.Marshal(emptyIfNil(p.FlavorPreferences))
	if err != nil {
		return fmt.Errorf("failed to marshal flavor preferences: %w", err)
	}
	cuisines, err := json.Marshal(emptyIfNil(p.CuisinePreferences))
	if err != nil {
		return fmt.Errorf("failed to marshal cuisine preferences: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO preferences (
			user_id, goal, diet_type, activity_level, allergies, dislikes,
			cooking_skill, budget, max_cooking_minutes, household_size,
			meal_complexity, flavor_preferences, cuisine_preferences,
			meals_per_day, notes, age, weight_kg, height_cm, sex
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			goal = excluded.goal,
			diet_type = excluded.diet_type,
			activity_level = excluded.activity_level,
			allergies = excluded.allergies,
			dislikes = excluded.dislikes,
			cooking_skill = excluded.cooking_skill,
			budget = excluded.budget,
			max_cooking_minutes = excluded.max_cooking_minutes,
			household_size = excluded.household_size,
			meal_complexity = excluded.meal_complexity,
			flavor_preferences = excluded.flavor_preferences,
			cuisine_preferences = excluded.cuisine_preferences,
			meals_per_day = excluded.meals_per_day,
			notes = excluded.notes,
			age = excluded.age,
			weight_kg = excluded.weight_kg,
			height_cm = excluded.height_cm,
			sex = excluded.sex`,
		p.UserID, p.Goal, p.DietType, p.ActivityLevel, string(allergies), string(dislikes),
		p.CookingSkill, p.Budget, p.MaxCookingMinutes, p.HouseholdSize,
		p.MealComplexity, string(flavors), string(cuisines),
		p.MealsPerDay, p.Notes, p.Age, p.WeightKg, p.HeightCm, p.Sex)
	if err != nil {
		return fmt.Errorf("failed to upsert preferences for user %s: %w", p.UserID, err)
	}

	return nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
