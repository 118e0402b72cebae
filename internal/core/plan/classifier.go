package plan

import (
	"errors"
	"net/http"

	"mealplan-generator/internal/core/ai/openrouter"
	"mealplan-generator/internal/pkg/common"
)

// Error categories reported to clients.
const (
	CategoryRateLimited        = "rate_limited"
	CategoryInvalidInput       = "invalid_input"
	CategoryMissingPreferences = "missing_preferences"
	CategoryGenerationFailed   = "generation_failed"
)

// Pipeline sentinels classified to dedicated categories.
var (
	ErrInvalidUserID      = errors.New("user id is required")
	ErrMissingPreferences = errors.New("no preferences stored for user")
)

// Classified is the user-facing shape of a pipeline failure. The error key
// carries the localized message; details carries the raw underlying error
// text. The category and status stay server-side for logging and the
// response code.
type Classified struct {
	Success  bool   `json:"success"`
	Message  string `json:"error"`
	Details  string `json:"details"`
	Category string `json:"-"`
	Status   int    `json:"-"`
}

var classifierMessages = map[Language]map[string]string{
	LanguageEnglish: {
		CategoryRateLimited:        "The AI service is busy right now. Please try again in a moment.",
		CategoryInvalidInput:       "The request is invalid. Please check the submitted data.",
		CategoryMissingPreferences: "No preferences found. Please complete your profile before generating a plan.",
		CategoryGenerationFailed:   "We could not generate your meal plan. Please try again.",
	},
	LanguageSpanish: {
		CategoryRateLimited:        "El servicio de IA está ocupado en este momento. Inténtalo de nuevo en unos instantes.",
		CategoryInvalidInput:       "La solicitud no es válida. Revisa los datos enviados.",
		CategoryMissingPreferences: "No se encontraron preferencias. Completa tu perfil antes de generar un plan.",
		CategoryGenerationFailed:   "No pudimos generar tu plan de comidas. Inténtalo de nuevo.",
	},
}

// Classify maps a pipeline error onto its category, HTTP status and a
// localized message. Unknown errors land in the generation_failed bucket;
// the raw error text still travels in details for diagnosis.
func Classify(err error, lang Language) Classified {
	lang = lang.Normalize()

	category := CategoryGenerationFailed
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, openrouter.ErrRateLimited):
		category = CategoryRateLimited
		status = http.StatusTooManyRequests
	case errors.Is(err, ErrInvalidUserID), common.IsValidationError(err):
		category = CategoryInvalidInput
		status = http.StatusBadRequest
	case errors.Is(err, ErrMissingPreferences):
		category = CategoryMissingPreferences
		status = http.StatusBadRequest
	}

	details := ""
	if err != nil {
		details = err.Error()
	}

	return Classified{
		Success:  false,
		Message:  classifierMessages[lang][category],
		Details:  details,
		Category: category,
		Status:   status,
	}
}
