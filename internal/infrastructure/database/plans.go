package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"mealplan-generator/internal/core/plan"
)

// PlanRepository persists meal plans, their meals and their shopping lists.
// Every operation is a single statement; the pipeline's compensating delete
// is the only rollback mechanism layered on top.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a plan repository.
func NewPlanRepository(d *DB) *PlanRepository {
	return &PlanRepository{db: d.SQL}
}

// InsertPlan writes the meal plan header row.
func (r *PlanRepository) InsertPlan(ctx context.Context, p *plan.MealPlan) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO meal_plans (id, user_id, week_start, fingerprint, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.WeekStart.Format("2006-01-02"), p.Fingerprint, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert meal plan: %w", err)
	}
	return nil
}

// InsertMeals writes the full meal batch and returns how many rows were
// written. A partial write reports the real count so the caller can detect
// it and compensate.
func (r *PlanRepository) InsertMeals(ctx context.Context, planID string, meals []plan.Meal) (int, error) {
	inserted := 0
	for _, m := range meals {
		ingredients, err := json.Marshal(emptyIfNil(m.Ingredients))
		if err != nil {
			return inserted, fmt.Errorf("failed to marshal ingredients: %w", err)
		}
		steps, err := json.Marshal(emptyIfNil(m.Steps))
		if err != nil {
			return inserted, fmt.Errorf("failed to marshal steps: %w", err)
		}

		_, err = r.db.ExecContext(ctx, `
			INSERT INTO meals (plan_id, day_index, meal_type, name, description,
				ingredients, steps, calories, protein, carbs, fats, benefits, image_url)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			planID, m.DayIndex, m.MealType, m.Name, m.Description,
			string(ingredients), string(steps), m.Calories, m.Protein, m.Carbs, m.Fats,
			m.Benefits, nullableString(m.ImageURL))
		if err != nil {
			return inserted, fmt.Errorf("failed to insert meal %q: %w", m.Name, err)
		}
		inserted++
	}
	return inserted, nil
}

// DeletePlan removes a meal plan row; meals and shopping lists cascade.
func (r *PlanRepository) DeletePlan(ctx context.Context, planID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM meal_plans WHERE id = ?`, planID); err != nil {
		return fmt.Errorf("failed to delete meal plan %s: %w", planID, err)
	}
	return nil
}

// InsertShoppingList writes the shopping list for a plan.
func (r *PlanRepository) InsertShoppingList(ctx context.Context, planID string, items []string) error {
	payload, err := json.Marshal(emptyIfNil(items))
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO shopping_lists (plan_id, items, created_at)
		VALUES (?, ?, ?)`,
		planID, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return nil
}

// GetLatestPlan returns the most recent plan for a user, or nil when the
// user has no plan yet.
func (r *PlanRepository) GetLatestPlan(ctx context.Context, userID string) (*plan.MealPlan, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, week_start, fingerprint, created_at
		FROM meal_plans WHERE user_id = ?
		ORDER BY created_at DESC LIMIT 1`, userID)

	var p plan.MealPlan
	var weekStart string
	if err := row.Scan(&p.ID, &p.UserID, &weekStart, &p.Fingerprint, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read latest plan for user %s: %w", userID, err)
	}

	parsed, err := time.Parse("2006-01-02", weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to parse week start %q: %w", weekStart, err)
	}
	p.WeekStart = parsed

	return &p, nil
}

// GetMeals returns the meals of a plan ordered by day and insertion order.
func (r *PlanRepository) GetMeals(ctx context.Context, planID string) ([]plan.Meal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, plan_id, day_index, meal_type, name, description,
		       ingredients, steps, calories, protein, carbs, fats, benefits, image_url
		FROM meals WHERE plan_id = ?
		ORDER BY day_index, id`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals for plan %s: %w", planID, err)
	}
	defer rows.Close()

	var meals []plan.Meal
	for rows.Next() {
		var m plan.Meal
		var ingredients, steps string
		var imageURL sql.NullString
		if err := rows.Scan(&m.ID, &m.PlanID, &m.DayIndex, &m.MealType, &m.Name, &m.Description,
			&ingredients, &steps, &m.Calories, &m.Protein, &m.Carbs, &m.Fats, &m.Benefits, &imageURL); err != nil {
			return nil, fmt.Errorf("failed to scan meal row: %w", err)
		}
		if err := json.Unmarshal([]byte(ingredients), &m.Ingredients); err != nil {
			return nil, fmt.Errorf("failed to unmarshal meal ingredients: %w", err)
		}
		if err := json.Unmarshal([]byte(steps), &m.Steps); err != nil {
			return nil, fmt.Errorf("failed to unmarshal meal steps: %w", err)
		}
		if imageURL.Valid {
			m.ImageURL = imageURL.String
		}
		meals = append(meals, m)
	}

	return meals, rows.Err()
}

// CountMeals returns how many meals a plan has.
func (r *PlanRepository) CountMeals(ctx context.Context, planID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meals WHERE plan_id = ?`, planID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count meals for plan %s: %w", planID, err)
	}
	return count, nil
}

// GetShoppingList returns the shopping list of a plan, or nil when the
// plan persisted without one.
func (r *PlanRepository) GetShoppingList(ctx context.Context, planID string) (*plan.ShoppingList, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, plan_id, items, created_at
		FROM shopping_lists WHERE plan_id = ?
		ORDER BY created_at DESC LIMIT 1`, planID)

	var list plan.ShoppingList
	var items string
	if err := row.Scan(&list.ID, &list.PlanID, &items, &list.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read shopping list for plan %s: %w", planID, err)
	}

	if err := json.Unmarshal([]byte(items), &list.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}

	return &list, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
