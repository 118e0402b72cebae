package plan

import (
	"time"
)

// Language selects the language every user-facing string is rendered in.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

// Normalize maps unknown codes to English.
func (l Language) Normalize() Language {
	if l == LanguageSpanish {
		return LanguageSpanish
	}
	return LanguageEnglish
}

// Preferences is the stored survey result for one user. The pipeline only
// ever reads it; mutation happens through the onboarding surface.
type Preferences struct {
	UserID             string   `json:"user_id"`
	Goal               string   `json:"goal"`
	DietType           string   `json:"diet_type"`
	ActivityLevel      string   `json:"activity_level"`
	Allergies          []string `json:"allergies"`
	Dislikes           []string `json:"dislikes"`
	CookingSkill       string   `json:"cooking_skill"`
	Budget             string   `json:"budget"`
	MaxCookingMinutes  int      `json:"max_cooking_minutes"`
	HouseholdSize      int      `json:"household_size"`
	MealComplexity     string   `json:"meal_complexity"`
	FlavorPreferences  []string `json:"flavor_preferences"`
	CuisinePreferences []string `json:"cuisine_preferences"`
	MealsPerDay        int      `json:"meals_per_day"`
	Notes              string   `json:"notes,omitempty"`

	// optional demographics
	Age      int     `json:"age,omitempty"`
	WeightKg float64 `json:"weight_kg,omitempty"`
	HeightCm float64 `json:"height_cm,omitempty"`
	Sex      string  `json:"sex,omitempty"`
}

// WeeklyCheckIn is the optional adaptive signal for a single generation
// call. It is never persisted by the pipeline.
type WeeklyCheckIn struct {
	WeightTrend          string   `json:"weight_trend,omitempty"` // "up" | "down" | "stable"
	EnergyLevel          string   `json:"energy_level,omitempty"` // "low" | "normal" | "high"
	RecipePreferences    []string `json:"recipe_preferences,omitempty"`
	AvailableIngredients []string `json:"available_ingredients,omitempty"`
	WeeklyGoals          []string `json:"weekly_goals,omitempty"` // "cheaper" | "faster" | "more_protein"
}

// CandidateMeal is one meal entry exactly as the model returned it. Day is
// a string because the model may answer with a day name in either language
// or a numeric index.
type CandidateMeal struct {
	Day         *string  `json:"day"`
	MealType    *string  `json:"meal_type"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Calories    *int     `json:"calories"`
	Protein     *int     `json:"protein"`
	Carbs       *int     `json:"carbs"`
	Fats        *int     `json:"fats"`
	Benefits    *string  `json:"benefits"`

	// filled by the illustrator after validation, never by the model
	ImageURL string `json:"-"`
}

// CandidatePlan is the parsed model output. Downstream stages only accept
// this type; raw JSON never travels past the requester.
type CandidatePlan struct {
	Meals        []CandidateMeal `json:"meals"`
	ShoppingList []string        `json:"shopping_list"`
}

// MealPlan is one generation's persisted header row. Immutable once
// written; superseded, never updated.
type MealPlan struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	WeekStart   time.Time `json:"week_start"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

// Meal is one persisted meal belonging to a MealPlan.
type Meal struct {
	ID          int64    `json:"id"`
	PlanID      string   `json:"plan_id"`
	DayIndex    int      `json:"day_index"` // 0-6, Monday = 0
	MealType    string   `json:"meal_type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Calories    int      `json:"calories"`
	Protein     int      `json:"protein"`
	Carbs       int      `json:"carbs"`
	Fats        int      `json:"fats"`
	Benefits    string   `json:"benefits"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// ShoppingList is the persisted ingredient aggregate for one MealPlan. The
// pipeline stores it verbatim; deduplication and categorization are
// downstream concerns.
type ShoppingList struct {
	ID        int64     `json:"id"`
	PlanID    string    `json:"plan_id"`
	Items     []string  `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateRequest is the inbound pipeline request.
type GenerateRequest struct {
	UserID   string         `json:"user_id"`
	ForceNew bool           `json:"force_new"`
	Language Language       `json:"language"`
	CheckIn  *WeeklyCheckIn `json:"weekly_checkin,omitempty"`
}

// GenerateResult is the outbound pipeline success payload.
type GenerateResult struct {
	Success    bool   `json:"success"`
	MealPlanID string `json:"meal_plan_id"`
	MealsCount int    `json:"meals_count"`
	Cached     bool   `json:"cached"`
}
