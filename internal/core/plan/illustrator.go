package plan

import (
	"context"
	"fmt"
	"sync"

	"mealplan-generator/internal/core/ai/cache"
	"mealplan-generator/internal/core/ai/queue"
	"mealplan-generator/internal/pkg/common"

	"go.uber.org/zap"
)

// ImageGenerator is the AI image capability the illustrator depends on.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, requestID string) (string, error)
}

// ImageProcessor validates and normalizes a generated image reference.
type ImageProcessor interface {
	Process(ref string) (string, error)
}

// TaskSubmitter hands illustration work to the shared worker pool.
type TaskSubmitter interface {
	Submit(ctx context.Context, task queue.Task) error
}

// Illustrator fans per-meal image generation out over the worker pool.
// Image failures are strictly non-fatal: a meal whose illustration fails
// keeps an empty image reference and the plan proceeds.
type Illustrator struct {
	ai     ImageGenerator
	images ImageProcessor
	store  cache.Store
	pool   TaskSubmitter
}

// NewIllustrator creates an illustrator. store may be nil when caching is
// disabled.
func NewIllustrator(ai ImageGenerator, images ImageProcessor, store cache.Store, pool TaskSubmitter) *Illustrator {
	return &Illustrator{ai: ai, images: images, store: store, pool: pool}
}

// Illustrate generates one image per meal concurrently and waits for all of
// them. meals is mutated in place.
func (il *Illustrator) Illustrate(ctx context.Context, meals []CandidateMeal, lang Language, requestID string) {
	var wg sync.WaitGroup

	for i := range meals {
		meal := &meals[i]
		if meal.Name == nil {
			continue
		}
		name := *meal.Name

		wg.Add(1)
		task := func() {
			defer wg.Done()
			il.illustrateOne(ctx, meal, name, lang, requestID)
		}
		if err := il.pool.Submit(ctx, task); err != nil {
			wg.Done()
			common.LogWarn("failed to queue illustration task",
				zap.String("meal", name),
				zap.Error(err),
				zap.String("request_id", requestID),
			)
		}
	}

	wg.Wait()
}

func (il *Illustrator) illustrateOne(ctx context.Context, meal *CandidateMeal, name string, lang Language, requestID string) {
	key := cache.Key(name, string(lang))
	if il.store != nil {
		if cached, err := il.store.Get(ctx, key); err == nil && cached != "" {
			meal.ImageURL = cached
			return
		}
	}

	ref, err := il.ai.GenerateImage(ctx, imagePrompt(name, meal.Description, lang), requestID)
	if err != nil {
		common.LogWarn("illustration generation failed",
			zap.String("meal", name),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		return
	}

	processed, err := il.images.Process(ref)
	if err != nil {
		common.LogWarn("illustration processing failed",
			zap.String("meal", name),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		return
	}

	meal.ImageURL = processed
	if il.store != nil {
		if err := il.store.Set(ctx, key, processed); err != nil {
			common.LogDebug("illustration cache write skipped",
				zap.String("meal", name),
				zap.Error(err),
			)
		}
	}
}

// imagePrompt builds the short per-meal image brief in the plan language.
func imagePrompt(name string, description *string, lang Language) string {
	detail := ""
	if description != nil {
		detail = *description
	}
	if lang == LanguageSpanish {
		return fmt.Sprintf("Fotografía profesional de comida: %s. %s Plato servido, luz natural, alta resolución, sin texto.", name, detail)
	}
	return fmt.Sprintf("Professional food photography: %s. %s Plated dish, natural lighting, high resolution, no text.", name, detail)
}
