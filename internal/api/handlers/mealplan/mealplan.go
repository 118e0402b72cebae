package mealplan

import (
	"net/http"
	"strings"

	planservice "mealplan-generator/internal/core/plan"
	"mealplan-generator/internal/infrastructure/database"
	"mealplan-generator/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves the meal plan endpoints.
type Handler struct {
	service *planservice.Service
	plans   *database.PlanRepository
	prefs   *database.PreferenceRepository
}

// NewHandler creates a meal plan handler.
func NewHandler(service *planservice.Service, plans *database.PlanRepository, prefs *database.PreferenceRepository) *Handler {
	return &Handler{
		service: service,
		plans:   plans,
		prefs:   prefs,
	}
}

// LatestPlanResponse bundles a stored plan with its meals and shopping list.
type LatestPlanResponse struct {
	Plan         *planservice.MealPlan `json:"plan"`
	Meals        []planservice.Meal    `json:"meals"`
	ShoppingList []string              `json:"shopping_list"`
}

// HandleGenerate runs the full generation pipeline for one user.
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := requestid.Get(c)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	var req planservice.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("invalid generate request",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		classified := planservice.Classify(planservice.ErrInvalidUserID, req.Language)
		c.JSON(classified.Status, classified)
		return
	}

	result, err := h.service.Generate(c.Request.Context(), req, requestID)
	if err != nil {
		classified := planservice.Classify(err, req.Language)
		common.LogError("plan generation failed",
			zap.Error(err),
			zap.String("category", classified.Category),
			zap.String("user_id", req.UserID),
			zap.String("request_id", requestID),
		)
		c.JSON(classified.Status, classified)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleLatest returns the newest stored plan for a user with its meals and
// shopping list.
func (h *Handler) HandleLatest(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	ctx := c.Request.Context()
	record, err := h.plans.GetLatestPlan(ctx, userID)
	if err != nil {
		common.LogError("failed to load latest plan",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No plan found"})
		return
	}

	meals, err := h.plans.GetMeals(ctx, record.ID)
	if err != nil {
		common.LogError("failed to load meals",
			zap.Error(err),
			zap.String("plan_id", record.ID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
		return
	}

	response := LatestPlanResponse{
		Plan:         record,
		Meals:        meals,
		ShoppingList: []string{},
	}
	if list, err := h.plans.GetShoppingList(ctx, record.ID); err == nil && list != nil {
		response.ShoppingList = list.Items
	}

	c.JSON(http.StatusOK, response)
}

// HandleShoppingList returns the stored shopping list for a plan.
func (h *Handler) HandleShoppingList(c *gin.Context) {
	planID := strings.TrimSpace(c.Param("id"))
	if planID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan id is required"})
		return
	}

	list, err := h.plans.GetShoppingList(c.Request.Context(), planID)
	if err != nil {
		common.LogError("failed to load shopping list",
			zap.Error(err),
			zap.String("plan_id", planID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load shopping list"})
		return
	}
	if list == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No shopping list found"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// HandleUpsertPreferences stores or replaces a user's survey answers.
func (h *Handler) HandleUpsertPreferences(c *gin.Context) {
	var prefs planservice.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	prefs.UserID = strings.TrimSpace(prefs.UserID)
	if prefs.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	if prefs.MealsPerDay < 2 || prefs.MealsPerDay > 5 {
		prefs.MealsPerDay = 3
	}

	if err := h.prefs.Upsert(c.Request.Context(), &prefs); err != nil {
		common.LogError("failed to store preferences",
			zap.Error(err),
			zap.String("user_id", prefs.UserID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}
