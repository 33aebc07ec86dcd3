// backend-go/internal/api/handlers/forecast_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/backend-go/internal/api/middleware"
	"github.com/shelfwise/backend-go/internal/forecast"
	"github.com/shelfwise/backend-go/internal/service"
)

type ForecastHandler struct {
	service        *service.ForecastService
	defaultHorizon int
}

func NewForecastHandler(s *service.ForecastService, defaultHorizon int) *ForecastHandler {
	if defaultHorizon <= 0 {
		defaultHorizon = 30
	}
	return &ForecastHandler{service: s, defaultHorizon: defaultHorizon}
}

type generateRequest struct {
	SKU         string `json:"sku" binding:"required"`
	HorizonDays int    `json:"horizon_days"`
}

// Generate forecasts a single SKU. Blocked-gate and insufficient-data
// conditions come back as structured JSON, not opaque 500s.
func (h *ForecastHandler) Generate(c *gin.Context) {
	userID := middleware.UserID(c)

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.HorizonDays <= 0 {
		req.HorizonDays = h.defaultHorizon
	}

	f, warnings, err := h.service.Generate(c.Request.Context(), userID, req.SKU, req.HorizonDays)
	if err != nil {
		h.writeForecastError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"forecast": f,
		"warnings": warnings,
	})
}

type batchRequest struct {
	HorizonDays int `json:"horizon_days"`
}

// GenerateBatch forecasts the whole inventory.
func (h *ForecastHandler) GenerateBatch(c *gin.Context) {
	userID := middleware.UserID(c)

	// An empty body is fine; batch has no required fields.
	var req batchRequest
	_ = c.ShouldBindJSON(&req)
	if req.HorizonDays <= 0 {
		req.HorizonDays = h.defaultHorizon
	}

	result, err := h.service.GenerateBatch(c.Request.Context(), userID, req.HorizonDays)
	if err != nil {
		h.writeForecastError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetLatest returns the newest stored forecast for a SKU.
func (h *ForecastHandler) GetLatest(c *gin.Context) {
	userID := middleware.UserID(c)
	sku := c.Param("sku")

	f, err := h.service.Latest(c.Request.Context(), userID, sku)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to load forecast", err)
		return
	}
	if f == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no forecast for sku " + sku})
		return
	}

	c.JSON(http.StatusOK, f)
}

func (h *ForecastHandler) writeForecastError(c *gin.Context, err error) {
	var gateErr *service.GateBlockedError
	if errors.As(err, &gateErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":        "forecasting_blocked",
			"message":      gateErr.Error(),
			"high_count":   gateErr.HighCount,
			"medium_count": gateErr.MediumCount,
		})
		return
	}

	var dataErr *forecast.InsufficientDataError
	if errors.As(err, &dataErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":        "insufficient_data",
			"message":      dataErr.Error(),
			"point_count":  dataErr.PointCount,
			"min_required": dataErr.MinRequired,
		})
		return
	}

	errorResponse(c, http.StatusInternalServerError, "forecast failed", err)
}
