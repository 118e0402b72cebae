package plan

import (
	"fmt"
	"math/rand"
	"strings"
)

// MealTypeSet returns the fixed meal-type tags implied by meals_per_day.
// These tags are language-independent; only the surrounding instructions
// are localized.
func MealTypeSet(mealsPerDay int) []string {
	switch mealsPerDay {
	case 2:
		return []string{"breakfast", "dinner"}
	case 4:
		return []string{"breakfast", "lunch", "snack", "dinner"}
	case 5:
		return []string{"breakfast", "snack", "lunch", "snack", "dinner"}
	default:
		return []string{"breakfast", "lunch", "dinner"}
	}
}

// variation themes, drawn uniformly per call so repeated generations with
// identical preferences do not converge on the same menu
var variationThemesEN = []string{
	"Mediterranean-inspired dishes",
	"Asian-inspired flavors",
	"comforting home-style classics",
	"fresh, light and colorful plates",
	"seasonal market vegetables",
	"whole grains and high-fiber choices",
}

var variationThemesES = []string{
	"platos de inspiración mediterránea",
	"sabores de inspiración asiática",
	"clásicos caseros reconfortantes",
	"platos frescos, ligeros y coloridos",
	"verduras de temporada del mercado",
	"cereales integrales y opciones ricas en fibra",
}

// Composer builds the localized generation instruction. The random source
// is injected so tests can fix the variation seed.
type Composer struct {
	rng *rand.Rand
}

// NewComposer creates a prompt composer.
func NewComposer(rng *rand.Rand) *Composer {
	return &Composer{rng: rng}
}

// Compose renders the full instruction for a 7-day plan. It never fails:
// the result is pure string construction over the inputs.
func (c *Composer) Compose(prefs *Preferences, checkIn *WeeklyCheckIn, lang Language) string {
	lang = lang.Normalize()

	mealsPerDay := prefs.MealsPerDay
	if mealsPerDay < 2 || mealsPerDay > 5 {
		mealsPerDay = 3
	}
	mealTypes := MealTypeSet(mealsPerDay)

	if lang == LanguageSpanish {
		return c.composeSpanish(prefs, checkIn, mealsPerDay, mealTypes)
	}
	return c.composeEnglish(prefs, checkIn, mealsPerDay, mealTypes)
}

func (c *Composer) composeEnglish(prefs *Preferences, checkIn *WeeklyCheckIn, mealsPerDay int, mealTypes []string) string {
	theme := variationThemesEN[c.rng.Intn(len(variationThemesEN))]

	var sb strings.Builder
	sb.WriteString("You are a professional nutrition coach. Create a complete 7-day meal plan ")
	sb.WriteString(fmt.Sprintf("with exactly %d meals per day (%s), %d meals in total.\n\n", mealsPerDay, strings.Join(mealTypes, ", "), mealsPerDay*7))

	sb.WriteString("User profile:\n")
	sb.WriteString(fmt.Sprintf("- Goal: %s\n", valueOrDefault(prefs.Goal, "balanced nutrition")))
	sb.WriteString(fmt.Sprintf("- Diet type: %s\n", valueOrDefault(prefs.DietType, "no restriction")))
	sb.WriteString(fmt.Sprintf("- Activity level: %s\n", valueOrDefault(prefs.ActivityLevel, "moderate")))
	if len(prefs.Allergies) > 0 {
		sb.WriteString(fmt.Sprintf("- Allergies (strictly avoid): %s\n", strings.Join(prefs.Allergies, ", ")))
	}
	if len(prefs.Dislikes) > 0 {
		sb.WriteString(fmt.Sprintf("- Disliked ingredients (avoid): %s\n", strings.Join(prefs.Dislikes, ", ")))
	}
	sb.WriteString(fmt.Sprintf("- Cooking skill: %s\n", valueOrDefault(prefs.CookingSkill, "beginner")))
	sb.WriteString(fmt.Sprintf("- Budget: %s\n", valueOrDefault(prefs.Budget, "medium")))
	if prefs.MaxCookingMinutes > 0 {
		sb.WriteString(fmt.Sprintf("- Maximum cooking time per meal: %d minutes\n", prefs.MaxCookingMinutes))
	}
	if prefs.HouseholdSize > 0 {
		sb.WriteString(fmt.Sprintf("- Household size: %d people\n", prefs.HouseholdSize))
	}
	sb.WriteString(fmt.Sprintf("- Meal complexity: %s\n", valueOrDefault(prefs.MealComplexity, "simple")))
	if len(prefs.FlavorPreferences) > 0 {
		sb.WriteString(fmt.Sprintf("- Preferred flavors: %s\n", strings.Join(prefs.FlavorPreferences, ", ")))
	}
	if len(prefs.CuisinePreferences) > 0 {
		sb.WriteString(fmt.Sprintf("- Preferred cuisines: %s\n", strings.Join(prefs.CuisinePreferences, ", ")))
	}
	if prefs.Notes != "" {
		sb.WriteString(fmt.Sprintf("- Additional notes: %s\n", prefs.Notes))
	}

	if directives := checkInDirectivesEnglish(checkIn); len(directives) > 0 {
		sb.WriteString("\nThis week's check-in adjustments:\n")
		for _, d := range directives {
			sb.WriteString("- " + d + "\n")
		}
	}

	sb.WriteString("\nRequirements:\n")
	sb.WriteString("1. Do not repeat recipes the user is likely to have seen before; favor variety across the week.\n")
	sb.WriteString(fmt.Sprintf("2. Give the week a light thematic touch of %s.\n", theme))
	sb.WriteString("3. Every meal name, description, ingredient, step and benefit must be written in English. Do not mix languages.\n")
	sb.WriteString("4. meal_type must be one of: " + strings.Join(uniqueStrings(mealTypes), ", ") + ". day is the weekday name or an index 0-6 where 0 is Monday.\n")
	sb.WriteString("5. calories, protein, carbs and fats are integer estimates per serving; never negative.\n")
	sb.WriteString("6. shopping_list aggregates every ingredient of the week as a flat array of strings.\n")
	sb.WriteString("7. Answer with the JSON structure below and nothing else: no markdown, no code fences, no commentary.\n")

	sb.WriteString(schemaContract)

	return sb.String()
}

func (c *Composer) composeSpanish(prefs *Preferences, checkIn *WeeklyCheckIn, mealsPerDay int, mealTypes []string) string {
	theme := variationThemesES[c.rng.Intn(len(variationThemesES))]

	var sb strings.Builder
	sb.WriteString("Eres un coach profesional de nutrición. Crea un plan de comidas completo de 7 días ")
	sb.WriteString(fmt.Sprintf("con exactamente %d comidas al día (%s), %d comidas en total.\n\n", mealsPerDay, strings.Join(mealTypes, ", "), mealsPerDay*7))

	sb.WriteString("Perfil del usuario:\n")
	sb.WriteString(fmt.Sprintf("- Objetivo: %s\n", valueOrDefault(prefs.Goal, "nutrición equilibrada")))
	sb.WriteString(fmt.Sprintf("- Tipo de dieta: %s\n", valueOrDefault(prefs.DietType, "sin restricción")))
	sb.WriteString(fmt.Sprintf("- Nivel de actividad: %s\n", valueOrDefault(prefs.ActivityLevel, "moderado")))
	if len(prefs.Allergies) > 0 {
		sb.WriteString(fmt.Sprintf("- Alergias (evitar estrictamente): %s\n", strings.Join(prefs.Allergies, ", ")))
	}
	if len(prefs.Dislikes) > 0 {
		sb.WriteString(fmt.Sprintf("- Ingredientes que no le gustan (evitar): %s\n", strings.Join(prefs.Dislikes, ", ")))
	}
	sb.WriteString(fmt.Sprintf("- Nivel de cocina: %s\n", valueOrDefault(prefs.CookingSkill, "principiante")))
	sb.WriteString(fmt.Sprintf("- Presupuesto: %s\n", valueOrDefault(prefs.Budget, "medio")))
	if prefs.MaxCookingMinutes > 0 {
		sb.WriteString(fmt.Sprintf("- Tiempo máximo de cocina por comida: %d minutos\n", prefs.MaxCookingMinutes))
	}
	if prefs.HouseholdSize > 0 {
		sb.WriteString(fmt.Sprintf("- Tamaño del hogar: %d personas\n", prefs.HouseholdSize))
	}
	sb.WriteString(fmt.Sprintf("- Complejidad de las comidas: %s\n", valueOrDefault(prefs.MealComplexity, "sencilla")))
	if len(prefs.FlavorPreferences) > 0 {
		sb.WriteString(fmt.Sprintf("- Sabores preferidos: %s\n", strings.Join(prefs.FlavorPreferences, ", ")))
	}
	if len(prefs.CuisinePreferences) > 0 {
		sb.WriteString(fmt.Sprintf("- Cocinas preferidas: %s\n", strings.Join(prefs.CuisinePreferences, ", ")))
	}
	if prefs.Notes != "" {
		sb.WriteString(fmt.Sprintf("- Notas adicionales: %s\n", prefs.Notes))
	}

	if directives := checkInDirectivesSpanish(checkIn); len(directives) > 0 {
		sb.WriteString("\nAjustes del check-in de esta semana:\n")
		for _, d := range directives {
			sb.WriteString("- " + d + "\n")
		}
	}

	sb.WriteString("\nRequisitos:\n")
	sb.WriteString("1. No repitas recetas que el usuario probablemente ya haya visto; prioriza la variedad durante la semana.\n")
	sb.WriteString(fmt.Sprintf("2. Dale a la semana un toque temático ligero de %s.\n", theme))
	sb.WriteString("3. Cada nombre, descripción, ingrediente, paso y beneficio debe estar escrito en español. No mezcles idiomas.\n")
	sb.WriteString("4. meal_type debe ser uno de: " + strings.Join(uniqueStrings(mealTypes), ", ") + ". day es el nombre del día de la semana o un índice 0-6 donde 0 es lunes.\n")
	sb.WriteString("5. calories, protein, carbs y fats son estimaciones enteras por ración; nunca negativas.\n")
	sb.WriteString("6. shopping_list agrega todos los ingredientes de la semana como un array plano de strings.\n")
	sb.WriteString("7. Responde con la estructura JSON de abajo y nada más: sin markdown, sin bloques de código, sin comentarios.\n")

	sb.WriteString(schemaContract)

	return sb.String()
}

// schemaContract is the exact output shape the model must answer with. The
// field names are part of the wire contract and stay identical in both
// languages.
const schemaContract = `
{
  "meals": [
    {
      "day": "monday",
      "meal_type": "breakfast",
      "name": "...",
      "description": "...",
      "ingredients": ["...", "..."],
      "steps": ["...", "..."],
      "calories": 0,
      "protein": 0,
      "carbs": 0,
      "fats": 0,
      "benefits": "..."
    }
  ],
  "shopping_list": ["...", "..."]
}
`

func checkInDirectivesEnglish(checkIn *WeeklyCheckIn) []string {
	if checkIn == nil {
		return nil
	}

	var directives []string

	switch checkIn.WeightTrend {
	case "up":
		directives = append(directives, "The user's weight trended up this week: reduce calories and carbohydrates, favor lean protein and vegetables.")
	case "down":
		directives = append(directives, "The user's weight trended down this week: keep the current caloric balance and preserve variety.")
	}

	if checkIn.EnergyLevel == "low" {
		directives = append(directives, "The user reported low energy: raise complex carbohydrates and include iron- and B12-rich choices.")
	}

	for _, goal := range checkIn.WeeklyGoals {
		switch goal {
		case "cheaper":
			directives = append(directives, "Keep the weekly cost low: prefer inexpensive, widely available ingredients.")
		case "faster":
			directives = append(directives, "Keep preparation time under 20 minutes per meal.")
		case "more_protein":
			directives = append(directives, "Raise the protein share of every meal.")
		}
	}

	if len(checkIn.RecipePreferences) > 0 {
		directives = append(directives, "Lean towards these kinds of recipes: "+strings.Join(checkIn.RecipePreferences, ", ")+".")
	}

	if len(checkIn.AvailableIngredients) > 0 {
		directives = append(directives, "The user already has these ingredients at home, incorporate them: "+strings.Join(checkIn.AvailableIngredients, ", ")+".")
	}

	return directives
}

func checkInDirectivesSpanish(checkIn *WeeklyCheckIn) []string {
	if checkIn == nil {
		return nil
	}

	var directives []string

	switch checkIn.WeightTrend {
	case "up":
		directives = append(directives, "El peso del usuario subió esta semana: reduce calorías y carbohidratos, prioriza proteína magra y verduras.")
	case "down":
		directives = append(directives, "El peso del usuario bajó esta semana: mantén el balance calórico actual y conserva la variedad.")
	}

	if checkIn.EnergyLevel == "low" {
		directives = append(directives, "El usuario reportó poca energía: aumenta los carbohidratos complejos e incluye opciones ricas en hierro y B12.")
	}

	for _, goal := range checkIn.WeeklyGoals {
		switch goal {
		case "cheaper":
			directives = append(directives, "Mantén bajo el costo semanal: prefiere ingredientes económicos y fáciles de conseguir.")
		case "faster":
			directives = append(directives, "Mantén el tiempo de preparación por debajo de 20 minutos por comida.")
		case "more_protein":
			directives = append(directives, "Aumenta la proporción de proteína en cada comida.")
		}
	}

	if len(checkIn.RecipePreferences) > 0 {
		directives = append(directives, "Favorece este tipo de recetas: "+strings.Join(checkIn.RecipePreferences, ", ")+".")
	}

	if len(checkIn.AvailableIngredients) > 0 {
		directives = append(directives, "El usuario ya tiene estos ingredientes en casa, incorpóralos: "+strings.Join(checkIn.AvailableIngredients, ", ")+".")
	}

	return directives
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
