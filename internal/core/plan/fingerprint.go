package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Fingerprint derives a deterministic digest of the preference fields that
// influence prompt content. Array-valued fields are sorted first, so two
// records with the same semantic content hash identically regardless of
// element order. The digest is stored with the resulting plan for auditing;
// it is never consulted to skip generation.
func Fingerprint(prefs *Preferences) string {
	parts := []string{
		"goal=" + prefs.Goal,
		"diet=" + prefs.DietType,
		"activity=" + prefs.ActivityLevel,
		"allergies=" + joinSorted(prefs.Allergies),
		"dislikes=" + joinSorted(prefs.Dislikes),
		"skill=" + prefs.CookingSkill,
		"budget=" + prefs.Budget,
		fmt.Sprintf("cooking_minutes=%d", prefs.MaxCookingMinutes),
		fmt.Sprintf("household=%d", prefs.HouseholdSize),
		"complexity=" + prefs.MealComplexity,
		"flavors=" + joinSorted(prefs.FlavorPreferences),
		"cuisines=" + joinSorted(prefs.CuisinePreferences),
		fmt.Sprintf("meals_per_day=%d", prefs.MealsPerDay),
	}

	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:])
}

// joinSorted joins a copy of values in sorted order.
func joinSorted(values []string) string {
	if len(values) == 0 {
		return ""
	}
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
