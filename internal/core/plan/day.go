package plan

import (
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"mealplan-generator/internal/pkg/common"
)

// dayIndexes maps normalized (lowercased, diacritic-free) day names in both
// supported languages to the canonical index, Monday = 0.
var dayIndexes = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,

	"lunes":     0,
	"martes":    1,
	"miercoles": 2,
	"jueves":    3,
	"viernes":   4,
	"sabado":    5,
	"domingo":   6,
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeDay maps a day designator to the canonical 0-6 index. The
// designator may be a day name in English or Spanish, with or without
// diacritics, or a numeric index. Unrecognized designators fall back to
// Monday; the fallback is logged so silently misplaced meals stay visible
// in diagnostics.
func NormalizeDay(designator string) int {
	trimmed := strings.ToLower(strings.TrimSpace(designator))
	if trimmed == "" {
		common.LogWarn("empty day designator, defaulting to Monday")
		return 0
	}

	if n, err := strconv.Atoi(trimmed); err == nil {
		if n >= 0 && n <= 6 {
			return n
		}
		common.LogWarn("day index out of range, defaulting to Monday",
			zap.Int("index", n),
		)
		return 0
	}

	folded := trimmed
	if stripped, _, err := transform.String(diacriticStripper, trimmed); err == nil {
		folded = stripped
	}

	if idx, ok := dayIndexes[folded]; ok {
		return idx
	}

	common.LogWarn("unrecognized day designator, defaulting to Monday",
		zap.String("designator", designator),
	)
	return 0
}
