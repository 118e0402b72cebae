package plan

import (
	"math/rand"
	"strings"
	"testing"
)

func newTestComposer() *Composer {
	return NewComposer(rand.New(rand.NewSource(1)))
}

func TestMealTypeSet(t *testing.T) {
	tests := []struct {
		mealsPerDay int
		want        []string
	}{
		{2, []string{"breakfast", "dinner"}},
		{3, []string{"breakfast", "lunch", "dinner"}},
		{4, []string{"breakfast", "lunch", "snack", "dinner"}},
		{5, []string{"breakfast", "snack", "lunch", "snack", "dinner"}},
		{0, []string{"breakfast", "lunch", "dinner"}},
		{9, []string{"breakfast", "lunch", "dinner"}},
	}

	for _, tt := range tests {
		got := MealTypeSet(tt.mealsPerDay)
		if len(got) != len(tt.want) {
			t.Errorf("MealTypeSet(%d) returned %d types, want %d", tt.mealsPerDay, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("MealTypeSet(%d)[%d] = %s, want %s", tt.mealsPerDay, i, got[i], tt.want[i])
			}
		}
	}
}

func TestCompose_English(t *testing.T) {
	composer := newTestComposer()
	prompt := composer.Compose(basePreferences(), nil, LanguageEnglish)

	for _, sub := range []string{
		"7-day meal plan",
		"exactly 3 meals per day",
		"21 meals in total",
		"Allergies (strictly avoid): peanuts, shellfish",
		"Do not mix languages",
		`"shopping_list"`,
		`"meal_type"`,
	} {
		if !strings.Contains(prompt, sub) {
			t.Errorf("Expected English prompt to contain %q", sub)
		}
	}
}

func TestCompose_Spanish(t *testing.T) {
	composer := newTestComposer()
	prompt := composer.Compose(basePreferences(), nil, LanguageSpanish)

	for _, sub := range []string{
		"plan de comidas completo de 7 días",
		"Alergias (evitar estrictamente): peanuts, shellfish",
		"No mezcles idiomas",
		`"shopping_list"`,
	} {
		if !strings.Contains(prompt, sub) {
			t.Errorf("Expected Spanish prompt to contain %q", sub)
		}
	}
}

func TestCompose_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	composer := newTestComposer()
	prompt := composer.Compose(basePreferences(), nil, Language("fr"))

	if !strings.Contains(prompt, "You are a professional nutrition coach") {
		t.Error("Expected unknown language to fall back to English")
	}
}

func TestCompose_CheckInDirectives(t *testing.T) {
	composer := newTestComposer()
	checkIn := &WeeklyCheckIn{
		WeightTrend:          "up",
		EnergyLevel:          "low",
		WeeklyGoals:          []string{"cheaper", "faster", "more_protein"},
		AvailableIngredients: []string{"rice", "eggs"},
	}

	prompt := composer.Compose(basePreferences(), checkIn, LanguageEnglish)

	for _, sub := range []string{
		"check-in adjustments",
		"reduce calories and carbohydrates",
		"complex carbohydrates",
		"B12",
		"inexpensive",
		"under 20 minutes",
		"protein share",
		"rice, eggs",
	} {
		if !strings.Contains(prompt, sub) {
			t.Errorf("Expected check-in prompt to contain %q", sub)
		}
	}
}

func TestCompose_NoCheckInSection(t *testing.T) {
	composer := newTestComposer()
	prompt := composer.Compose(basePreferences(), nil, LanguageEnglish)

	if strings.Contains(prompt, "check-in adjustments") {
		t.Error("Expected no check-in section without a check-in")
	}
}

func TestCompose_StableWeightTrendAddsNothing(t *testing.T) {
	if got := checkInDirectivesEnglish(&WeeklyCheckIn{WeightTrend: "stable"}); len(got) != 0 {
		t.Errorf("Expected no directives for a stable trend, got %d", len(got))
	}
}

func TestCompose_SeededVariation(t *testing.T) {
	a := NewComposer(rand.New(rand.NewSource(7))).Compose(basePreferences(), nil, LanguageEnglish)
	b := NewComposer(rand.New(rand.NewSource(7))).Compose(basePreferences(), nil, LanguageEnglish)

	if a != b {
		t.Error("Expected identical prompts for identical seeds")
	}
}

func TestCompose_InvalidMealsPerDayDefaultsToThree(t *testing.T) {
	prefs := basePreferences()
	prefs.MealsPerDay = 11

	prompt := newTestComposer().Compose(prefs, nil, LanguageEnglish)
	if !strings.Contains(prompt, "exactly 3 meals per day") {
		t.Error("Expected out-of-range meals_per_day to default to 3")
	}
}
