package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/service"
)

type ImportHandler struct {
	svc service.ImportService
}

func NewImportHandler(svc service.ImportService) *ImportHandler {
	return &ImportHandler{svc: svc}
}

func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.POST("/content", requireAuth, h.ImportContent)
}

// ImportContent accepts a multipart CSV upload and get-or-creates the
// catalog rows it describes.
func (h *ImportHandler) ImportContent(c *gin.Context) {
	fileHeader, err := c.FormFile("csv_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": "csv_file upload is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": "could not read upload"})
		return
	}
	defer file.Close()

	result, err := h.svc.ImportContent(c.Request.Context(), middleware.ActorFrom(c), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
