// backend-go/internal/api/handlers/import_handler.go
package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/shelfwise/backend-go/internal/api/middleware"
	"github.com/shelfwise/backend-go/internal/importer"
)

type ImportHandler struct {
	service *importer.Service
}

func NewImportHandler(s *importer.Service) *ImportHandler {
	return &ImportHandler{service: s}
}

// Upload ingests a CSV file. The :kind path segment selects the parser:
// "inventory", "sales" or "suppliers".
func (h *ImportHandler) Upload(c *gin.Context) {
	userID := middleware.UserID(c)

	kind := importer.Kind(c.Param("kind"))
	if kind != importer.KindInventory && kind != importer.KindSales && kind != importer.KindSuppliers {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be inventory, sales or suppliers"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "missing file upload", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "unable to open upload", err)
		return
	}
	defer file.Close()

	result, err := h.service.Import(c.Request.Context(), userID, kind, fileHeader.Filename, file)
	if err != nil {
		errorResponse(c, http.StatusUnprocessableEntity, "import failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListArchive lists the user's archived import files.
func (h *ImportHandler) ListArchive(c *gin.Context) {
	userID := middleware.UserID(c)

	objects, err := h.service.ListArchive(c.Request.Context(), userID)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to list archive", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": objects})
}

// DownloadArchive streams one archived import file back to the caller.
func (h *ImportHandler) DownloadArchive(c *gin.Context) {
	userID := middleware.UserID(c)

	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key query parameter is required"})
		return
	}

	object, err := h.service.OpenArchive(c.Request.Context(), userID, key)
	if err != nil {
		errorResponse(c, http.StatusNotFound, "archived file unavailable", err)
		return
	}
	defer object.Close()

	c.Header("Content-Type", "text/csv")
	if _, err := io.Copy(c.Writer, object); err != nil {
		// Headers are already written; nothing left to do but log.
		log.Error().Err(err).Str("key", key).Msg("archive stream interrupted")
	}
}
