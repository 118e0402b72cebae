package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mealplan-generator/internal/core/plan"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testPlan(id, userID string, createdAt time.Time) *plan.MealPlan {
	return &plan.MealPlan{
		ID:          id,
		UserID:      userID,
		WeekStart:   time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		Fingerprint: "fp-" + id,
		CreatedAt:   createdAt,
	}
}

func testMeal(planID string) plan.Meal {
	return plan.Meal{
		PlanID:      planID,
		DayIndex:    2,
		MealType:    "lunch",
		Name:        "Lentil Soup",
		Description: "Hearty soup",
		Ingredients: []string{"lentils", "carrots"},
		Steps:       []string{"Chop", "Simmer"},
		Calories:    420,
		Protein:     22,
		Carbs:       55,
		Fats:        8,
		Benefits:    "High fiber",
		ImageURL:    "data:image/jpeg;base64,abc",
	}
}

func TestPlanRepository_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlanRepository(db)
	ctx := context.Background()

	created := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	if err := repo.InsertPlan(ctx, testPlan("plan-1", "user-1", created)); err != nil {
		t.Fatalf("InsertPlan failed: %v", err)
	}

	inserted, err := repo.InsertMeals(ctx, "plan-1", []plan.Meal{testMeal("plan-1")})
	if err != nil {
		t.Fatalf("InsertMeals failed: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("Expected 1 inserted meal, got %d", inserted)
	}

	if err := repo.InsertShoppingList(ctx, "plan-1", []string{"lentils", "carrots"}); err != nil {
		t.Fatalf("InsertShoppingList failed: %v", err)
	}

	got, err := repo.GetLatestPlan(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetLatestPlan failed: %v", err)
	}
	if got == nil || got.ID != "plan-1" {
		t.Fatalf("Expected plan-1, got %+v", got)
	}
	if got.WeekStart.Format("2006-01-02") != "2026-03-02" {
		t.Errorf("Unexpected week start %v", got.WeekStart)
	}

	meals, err := repo.GetMeals(ctx, "plan-1")
	if err != nil {
		t.Fatalf("GetMeals failed: %v", err)
	}
	if len(meals) != 1 {
		t.Fatalf("Expected 1 meal, got %d", len(meals))
	}
	meal := meals[0]
	if meal.Name != "Lentil Soup" || meal.DayIndex != 2 || meal.Calories != 420 {
		t.Errorf("Unexpected meal row: %+v", meal)
	}
	if len(meal.Ingredients) != 2 || meal.Ingredients[0] != "lentils" {
		t.Errorf("Unexpected ingredients: %v", meal.Ingredients)
	}
	if meal.ImageURL == "" {
		t.Error("Expected the image reference to round-trip")
	}

	list, err := repo.GetShoppingList(ctx, "plan-1")
	if err != nil {
		t.Fatalf("GetShoppingList failed: %v", err)
	}
	if list == nil || len(list.Items) != 2 {
		t.Fatalf("Expected 2 shopping list items, got %+v", list)
	}
}

func TestPlanRepository_GetLatestPlanPicksNewest(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlanRepository(db)
	ctx := context.Background()

	older := time.Date(2026, time.February, 23, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	if err := repo.InsertPlan(ctx, testPlan("plan-old", "user-1", older)); err != nil {
		t.Fatalf("InsertPlan failed: %v", err)
	}
	if err := repo.InsertPlan(ctx, testPlan("plan-new", "user-1", newer)); err != nil {
		t.Fatalf("InsertPlan failed: %v", err)
	}

	got, err := repo.GetLatestPlan(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetLatestPlan failed: %v", err)
	}
	if got.ID != "plan-new" {
		t.Errorf("Expected plan-new, got %s", got.ID)
	}
}

func TestPlanRepository_GetLatestPlanMissingUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlanRepository(db)

	got, err := repo.GetLatestPlan(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetLatestPlan failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for an unknown user, got %+v", got)
	}
}

func TestPlanRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlanRepository(db)
	ctx := context.Background()

	if err := repo.InsertPlan(ctx, testPlan("plan-1", "user-1", time.Now().UTC())); err != nil {
		t.Fatalf("InsertPlan failed: %v", err)
	}
	if _, err := repo.InsertMeals(ctx, "plan-1", []plan.Meal{testMeal("plan-1"), testMeal("plan-1")}); err != nil {
		t.Fatalf("InsertMeals failed: %v", err)
	}
	if err := repo.InsertShoppingList(ctx, "plan-1", []string{"lentils"}); err != nil {
		t.Fatalf("InsertShoppingList failed: %v", err)
	}

	if err := repo.DeletePlan(ctx, "plan-1"); err != nil {
		t.Fatalf("DeletePlan failed: %v", err)
	}

	count, err := repo.CountMeals(ctx, "plan-1")
	if err != nil {
		t.Fatalf("CountMeals failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected cascading delete to remove meals, %d remain", count)
	}

	list, err := repo.GetShoppingList(ctx, "plan-1")
	if err != nil {
		t.Fatalf("GetShoppingList failed: %v", err)
	}
	if list != nil {
		t.Error("Expected cascading delete to remove the shopping list")
	}
}

func TestPlanRepository_DeleteCascadesAcrossConnections(t *testing.T) {
	db := newTestDB(t)
	// Drop idle connections so every statement gets a fresh connection,
	// which only honors foreign keys if the pragma rides in the DSN.
	db.SQL.SetMaxIdleConns(0)
	repo := NewPlanRepository(db)
	ctx := context.Background()

	if err := repo.InsertPlan(ctx, testPlan("plan-1", "user-1", time.Now().UTC())); err != nil {
		t.Fatalf("InsertPlan failed: %v", err)
	}
	if _, err := repo.InsertMeals(ctx, "plan-1", []plan.Meal{testMeal("plan-1"), testMeal("plan-1")}); err != nil {
		t.Fatalf("InsertMeals failed: %v", err)
	}

	if err := repo.DeletePlan(ctx, "plan-1"); err != nil {
		t.Fatalf("DeletePlan failed: %v", err)
	}

	count, err := repo.CountMeals(ctx, "plan-1")
	if err != nil {
		t.Fatalf("CountMeals failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected cascading delete to remove meals, %d remain", count)
	}
}

func TestPlanRepository_MealsWithoutImage(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlanRepository(db)
	ctx := context.Background()

	if err := repo.InsertPlan(ctx, testPlan("plan-1", "user-1", time.Now().UTC())); err != nil {
		t.Fatalf("InsertPlan failed: %v", err)
	}
	meal := testMeal("plan-1")
	meal.ImageURL = ""
	if _, err := repo.InsertMeals(ctx, "plan-1", []plan.Meal{meal}); err != nil {
		t.Fatalf("InsertMeals failed: %v", err)
	}

	meals, err := repo.GetMeals(ctx, "plan-1")
	if err != nil {
		t.Fatalf("GetMeals failed: %v", err)
	}
	if meals[0].ImageURL != "" {
		t.Errorf("Expected an empty image reference, got %q", meals[0].ImageURL)
	}
}
