package database

import (
	"context"
	"testing"

	"mealplan-generator/internal/core/plan"
)

func testPreferences() *plan.Preferences {
	return &plan.Preferences{
		UserID:             "user-1",
		Goal:               "lose_weight",
		DietType:           "vegetarian",
		ActivityLevel:      "high",
		Allergies:          []string{"peanuts"},
		Dislikes:           []string{"olives", "capers"},
		CookingSkill:       "intermediate",
		Budget:             "low",
		MaxCookingMinutes:  45,
		HouseholdSize:      3,
		MealComplexity:     "normal",
		FlavorPreferences:  []string{"spicy"},
		CuisinePreferences: []string{"thai", "indian"},
		MealsPerDay:        4,
		Notes:              "prefers one-pot dishes",
		Age:                34,
		WeightKg:           72.5,
		HeightCm:           178,
		Sex:                "male",
	}
}

func TestPreferenceRepository_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewPreferenceRepository(db)
	ctx := context.Background()

	if err := repo.Upsert(ctx, testPreferences()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := repo.GetByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected stored preferences, got nil")
	}
	if got.Goal != "lose_weight" || got.MealsPerDay != 4 || got.WeightKg != 72.5 {
		t.Errorf("Unexpected preferences: %+v", got)
	}
	if len(got.Dislikes) != 2 || got.Dislikes[1] != "capers" {
		t.Errorf("Unexpected dislikes: %v", got.Dislikes)
	}
	if len(got.CuisinePreferences) != 2 {
		t.Errorf("Unexpected cuisines: %v", got.CuisinePreferences)
	}
}

func TestPreferenceRepository_UpsertReplaces(t *testing.T) {
	db := newTestDB(t)
	repo := NewPreferenceRepository(db)
	ctx := context.Background()

	if err := repo.Upsert(ctx, testPreferences()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	updated := testPreferences()
	updated.Goal = "gain_muscle"
	updated.Allergies = nil
	if err := repo.Upsert(ctx, updated); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	got, err := repo.GetByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if got.Goal != "gain_muscle" {
		t.Errorf("Expected the goal to be replaced, got %s", got.Goal)
	}
	if len(got.Allergies) != 0 {
		t.Errorf("Expected allergies to be cleared, got %v", got.Allergies)
	}
}

func TestPreferenceRepository_MissingUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewPreferenceRepository(db)

	got, err := repo.GetByUserID(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for an unknown user, got %+v", got)
	}
}
