// backend-go/internal/api/handlers/reorder_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/backend-go/internal/api/middleware"
	"github.com/shelfwise/backend-go/internal/reorder"
	"github.com/shelfwise/backend-go/internal/service"
)

type ReorderHandler struct {
	service *service.ReorderService
}

func NewReorderHandler(s *service.ReorderService) *ReorderHandler {
	return &ReorderHandler{service: s}
}

// GetSuggestions returns the supplier-grouped reorder list.
func (h *ReorderHandler) GetSuggestions(c *gin.Context) {
	userID := middleware.UserID(c)

	groups, err := h.service.BuildReorderList(c.Request.Context(), userID)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to build reorder list", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suppliers": groups})
}

// GeneratePO builds a purchase order draft for one supplier. Incomplete
// supplier records are a 409 with the missing fields listed, so the UI
// can prompt for exactly what is absent.
func (h *ReorderHandler) GeneratePO(c *gin.Context) {
	userID := middleware.UserID(c)
	supplierID := c.Param("supplier_id")

	po, err := h.service.GeneratePurchaseOrder(c.Request.Context(), userID, supplierID)
	if err != nil {
		var incomplete *reorder.IncompleteSupplierError
		if errors.As(err, &incomplete) {
			c.JSON(http.StatusConflict, gin.H{
				"error":          "incomplete_supplier",
				"message":        incomplete.Error(),
				"supplier_name":  incomplete.SupplierName,
				"missing_fields": incomplete.MissingFields,
			})
			return
		}
		errorResponse(c, http.StatusInternalServerError, "failed to generate purchase order", err)
		return
	}

	c.JSON(http.StatusOK, po)
}
