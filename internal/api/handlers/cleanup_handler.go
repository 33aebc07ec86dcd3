// backend-go/internal/api/handlers/cleanup_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/shelfwise/backend-go/internal/api/middleware"
	"github.com/shelfwise/backend-go/internal/domain"
	"github.com/shelfwise/backend-go/internal/service"
)

type CleanupHandler struct {
	service *service.CleanupService
}

func NewCleanupHandler(s *service.CleanupService) *CleanupHandler {
	return &CleanupHandler{service: s}
}

// Scan re-runs all detectors and replaces the stored issue set.
func (h *CleanupHandler) Scan(c *gin.Context) {
	userID := middleware.UserID(c)

	issues, err := h.service.Scan(c.Request.Context(), userID)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "cleanup scan failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"issues": issues,
		"count":  len(issues),
	})
}

// GetIssues lists stored issues, optionally narrowed by ?type= and
// ?severity= query parameters.
func (h *CleanupHandler) GetIssues(c *gin.Context) {
	userID := middleware.UserID(c)

	var filter service.IssueFilter
	if label := c.Query("type"); label != "" {
		issueType, ok := domain.ParseIssueType(label)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown issue type " + label})
			return
		}
		filter.Type = &issueType
	}
	if label := c.Query("severity"); label != "" {
		severity, ok := domain.ParseSeverity(label)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown severity " + label})
			return
		}
		filter.Severity = &severity
	}

	issues, err := h.service.Issues(c.Request.Context(), userID, filter)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to load issues", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"issues": issues})
}

func (h *CleanupHandler) GetReport(c *gin.Context) {
	userID := middleware.UserID(c)

	report, err := h.service.Report(c.Request.Context(), userID)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to build report", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

type resolveRequest struct {
	IssueIDs []string `json:"issue_ids" binding:"required"`
}

// Resolve marks issues resolved. Unknown ids are skipped, not errors.
func (h *CleanupHandler) Resolve(c *gin.Context) {
	userID := middleware.UserID(c)

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	resolved, err := h.service.Resolve(c.Request.Context(), userID, req.IssueIDs)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to resolve issues", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"resolved": resolved})
}

func errorResponse(c *gin.Context, statusCode int, message string, err error) {
	log.Error().Err(err).Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}
