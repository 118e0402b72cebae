package plan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mealplan-generator/internal/pkg/common"

	"go.uber.org/zap"
)

// PreferenceStore loads the stored survey for a user. A nil result with a
// nil error means the user never completed onboarding.
type PreferenceStore interface {
	GetByUserID(ctx context.Context, userID string) (*Preferences, error)
}

// Service runs the full generation pipeline in stage order: fingerprint,
// prompt, AI request, validation, illustration, persistence.
type Service struct {
	prefs       PreferenceStore
	composer    *Composer
	requester   *Requester
	illustrator *Illustrator
	persister   *Persister
}

// NewService wires the pipeline stages together.
func NewService(prefs PreferenceStore, composer *Composer, requester *Requester, illustrator *Illustrator, persister *Persister) *Service {
	return &Service{
		prefs:       prefs,
		composer:    composer,
		requester:   requester,
		illustrator: illustrator,
		persister:   persister,
	}
}

// Generate produces and stores one meal plan for the requesting user.
func (s *Service) Generate(ctx context.Context, req GenerateRequest, requestID string) (*GenerateResult, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	lang := req.Language.Normalize()

	prefs, err := s.prefs.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	if prefs == nil {
		return nil, ErrMissingPreferences
	}

	fingerprint := Fingerprint(prefs)
	common.LogInfo("starting plan generation",
		zap.String("user_id", userID),
		zap.String("fingerprint", fingerprint),
		zap.String("language", string(lang)),
		zap.Bool("force_new", req.ForceNew),
		zap.Bool("has_checkin", req.CheckIn != nil),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	prompt := s.composer.Compose(prefs, req.CheckIn, lang)

	candidate, err := s.requester.Request(ctx, prompt, requestID)
	if err != nil {
		return nil, err
	}

	if err := Validate(candidate); err != nil {
		return nil, err
	}

	s.illustrator.Illustrate(ctx, candidate.Meals, lang, requestID)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation canceled: %w", err)
	}

	record, mealsCount, err := s.persister.Persist(ctx, userID, fingerprint, candidate, requestID)
	if err != nil {
		return nil, err
	}

	common.LogInfo("plan generation completed",
		zap.String("plan_id", record.ID),
		zap.String("user_id", userID),
		zap.Int("meals_count", mealsCount),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID),
	)

	return &GenerateResult{
		Success:    true,
		MealPlanID: record.ID,
		MealsCount: mealsCount,
		Cached:     false,
	}, nil
}
