package plan

import (
	"context"
	"fmt"
	"time"

	"mealplan-generator/internal/pkg/common"

	"go.uber.org/zap"
)

// PlanStore is the persistence surface the persister writes through.
type PlanStore interface {
	InsertPlan(ctx context.Context, plan *MealPlan) error
	InsertMeals(ctx context.Context, planID string, meals []Meal) (int, error)
	DeletePlan(ctx context.Context, planID string) error
	InsertShoppingList(ctx context.Context, planID string, items []string) error
}

// Persister writes a validated candidate to storage. The plan row is written
// first; if the meal batch cannot be stored completely the plan row is
// deleted again so no headless plan survives. A failed shopping list write
// is logged and tolerated.
type Persister struct {
	store PlanStore
	now   func() time.Time
}

// NewPersister creates a persister. nowFn may be nil to use time.Now.
func NewPersister(store PlanStore, nowFn func() time.Time) *Persister {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Persister{store: store, now: nowFn}
}

// Persist stores the candidate plan and returns the stored plan record with
// the number of meals written.
func (p *Persister) Persist(ctx context.Context, userID, fingerprint string, candidate *CandidatePlan, requestID string) (*MealPlan, int, error) {
	now := p.now().UTC()
	record := &MealPlan{
		ID:          common.GenerateUUID(),
		UserID:      userID,
		WeekStart:   startOfWeek(now),
		Fingerprint: fingerprint,
		CreatedAt:   now,
	}

	if err := p.store.InsertPlan(ctx, record); err != nil {
		return nil, 0, fmt.Errorf("failed to store plan: %w", err)
	}

	meals := buildMeals(record.ID, candidate.Meals)
	inserted, err := p.store.InsertMeals(ctx, record.ID, meals)
	if err != nil || inserted != len(meals) {
		p.compensate(ctx, record.ID, requestID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to store meals: %w", err)
		}
		return nil, 0, fmt.Errorf("stored %d of %d meals", inserted, len(meals))
	}

	if err := p.store.InsertShoppingList(ctx, record.ID, candidate.ShoppingList); err != nil {
		common.LogWarn("failed to store shopping list",
			zap.String("plan_id", record.ID),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
	}

	return record, inserted, nil
}

// compensate removes the plan row after a failed meal batch. Cascading
// foreign keys take any partial rows with it.
func (p *Persister) compensate(ctx context.Context, planID string, requestID string) {
	if err := p.store.DeletePlan(ctx, planID); err != nil {
		common.LogError("failed to delete incomplete plan",
			zap.String("plan_id", planID),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
	}
}

// buildMeals converts validated candidate meals into storable rows,
// normalizing day designators and defaulting absent macros to zero.
func buildMeals(planID string, candidates []CandidateMeal) []Meal {
	meals := make([]Meal, 0, len(candidates))
	for _, c := range candidates {
		meals = append(meals, Meal{
			PlanID:      planID,
			DayIndex:    NormalizeDay(stringValue(c.Day)),
			MealType:    stringValue(c.MealType),
			Name:        stringValue(c.Name),
			Description: stringValue(c.Description),
			Ingredients: c.Ingredients,
			Steps:       c.Steps,
			Calories:    intValue(c.Calories),
			Protein:     intValue(c.Protein),
			Carbs:       intValue(c.Carbs),
			Fats:        intValue(c.Fats),
			Benefits:    stringValue(c.Benefits),
			ImageURL:    c.ImageURL,
		})
	}
	return meals
}

// startOfWeek returns the Monday of the week containing t, at midnight UTC.
func startOfWeek(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intValue(n *int) int {
	if n == nil || *n < 0 {
		return 0
	}
	return *n
}
