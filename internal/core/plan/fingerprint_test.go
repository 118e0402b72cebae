package plan

import (
	"testing"
)

func basePreferences() *Preferences {
	return &Preferences{
		UserID:             "user-1",
		Goal:               "lose_weight",
		DietType:           "omnivore",
		ActivityLevel:      "moderate",
		Allergies:          []string{"peanuts", "shellfish"},
		Dislikes:           []string{"cilantro"},
		CookingSkill:       "beginner",
		Budget:             "medium",
		MaxCookingMinutes:  30,
		HouseholdSize:      2,
		MealComplexity:     "simple",
		FlavorPreferences:  []string{"spicy", "savory"},
		CuisinePreferences: []string{"mexican", "italian"},
		MealsPerDay:        3,
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint(basePreferences())
	b := Fingerprint(basePreferences())

	if a != b {
		t.Errorf("Expected identical fingerprints, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(a))
	}
}

func TestFingerprint_OrderIndependent(t *testing.T) {
	prefs := basePreferences()
	shuffled := basePreferences()
	shuffled.Allergies = []string{"shellfish", "peanuts"}
	shuffled.FlavorPreferences = []string{"savory", "spicy"}
	shuffled.CuisinePreferences = []string{"italian", "mexican"}

	if Fingerprint(prefs) != Fingerprint(shuffled) {
		t.Error("Expected fingerprint to ignore array element order")
	}
}

func TestFingerprint_ChangesWithContent(t *testing.T) {
	prefs := basePreferences()
	base := Fingerprint(prefs)

	changed := basePreferences()
	changed.Goal = "gain_muscle"
	if Fingerprint(changed) == base {
		t.Error("Expected a different fingerprint after changing the goal")
	}

	changed = basePreferences()
	changed.Allergies = append(changed.Allergies, "gluten")
	if Fingerprint(changed) == base {
		t.Error("Expected a different fingerprint after adding an allergy")
	}
}

func TestFingerprint_IgnoresUserID(t *testing.T) {
	a := basePreferences()
	b := basePreferences()
	b.UserID = "user-2"

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("Expected fingerprint to be independent of user id")
	}
}
