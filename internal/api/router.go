package api

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"mealplan-generator/internal/api/handlers/health"
	"mealplan-generator/internal/api/handlers/mealplan"
	"mealplan-generator/internal/api/middleware"
	"mealplan-generator/internal/core/ai/cache"
	"mealplan-generator/internal/core/ai/queue"
	aiservice "mealplan-generator/internal/core/ai/service"
	"mealplan-generator/internal/core/image"
	"mealplan-generator/internal/core/plan"
	"mealplan-generator/internal/infrastructure/config"
	"mealplan-generator/internal/infrastructure/database"
	"mealplan-generator/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// plan generation makes one long text call plus a batch of image calls
	timeoutDuration = 180 * time.Second
	maxBodySize     = 1 << 20
)

// SetupRouter wires middleware, services and routes.
func SetupRouter(cfg *config.Config, db *database.DB, store cache.Store, pool *queue.Pool) (*gin.Engine, error) {
	common.LogInfo("starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	aiService := aiservice.NewService(cfg)
	imageService := image.NewService(cfg.Image.MaxSizeBytes)

	prefRepo := database.NewPreferenceRepository(db)
	planRepo := database.NewPlanRepository(db)

	composer := plan.NewComposer(rand.New(rand.NewSource(time.Now().UnixNano())))
	requester := plan.NewRequester(aiService)
	illustrator := plan.NewIllustrator(aiService, imageService, store, pool)
	persister := plan.NewPersister(planRepo, nil)
	planService := plan.NewService(prefRepo, composer, requester, illustrator, persister)

	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("database", db)
		c.Set("worker_pool", pool)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
			})
			c.Abort()
		}
	})

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	api := router.Group("/api/v1")
	{
		handler := mealplan.NewHandler(planService, planRepo, prefRepo)

		planGroup := api.Group("/plan")
		{
			generateChain := []gin.HandlerFunc{middleware.Deduplication(cfg)}
			if cfg.RateLimit.Enabled {
				generateChain = append(generateChain, middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
			}
			generateChain = append(generateChain, handler.HandleGenerate)
			planGroup.POST("/generate", generateChain...)
			planGroup.GET("/latest", handler.HandleLatest)
			planGroup.GET("/:id/shopping-list", handler.HandleShoppingList)
		}

		api.PUT("/preferences", handler.HandleUpsertPreferences)
	}

	common.LogInfo("router setup completed",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Int("queue_workers", cfg.Queue.Workers),
		zap.String("model", cfg.OpenRouter.Model),
		zap.String("image_model", cfg.OpenRouter.ImageModel),
		zap.Duration("timeout", timeoutDuration),
	)

	return router, nil
}
