// backend-go/internal/api/handlers/recommendation_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/backend-go/internal/api/middleware"
	"github.com/shelfwise/backend-go/internal/service"
)

type RecommendationHandler struct {
	service *service.RecommendationService
}

func NewRecommendationHandler(s *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: s}
}

// GetRecommendations returns narrated recommendations for every item with
// a stored forecast, most urgent first.
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	userID := middleware.UserID(c)

	recs, err := h.service.Recommendations(c.Request.Context(), userID)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to build recommendations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// GetDailyTodos returns the daily action list.
func (h *RecommendationHandler) GetDailyTodos(c *gin.Context) {
	userID := middleware.UserID(c)

	todos, err := h.service.DailyTodos(c.Request.Context(), userID)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to build daily todos", err)
		return
	}

	c.JSON(http.StatusOK, todos)
}
