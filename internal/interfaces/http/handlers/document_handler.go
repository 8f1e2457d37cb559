package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ClauseLens/internal/application/comparison"
	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
)

// ExtractResponse is the text extracted from one upload.
type ExtractResponse struct {
	Name string `json:"name"`
	domain.DocumentText
}

// DocumentHandler exposes the extraction boundary.
type DocumentHandler struct {
	service        comparison.Service
	maxUploadBytes int64
}

func NewDocumentHandler(service comparison.Service, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Extract handles POST /api/v1/documents/extract with a multipart "file".
func (h *DocumentHandler) Extract(c *gin.Context) {
	if !isMultipart(c) {
		writeValidationError(c, "multipart/form-data body with a \"file\" field is required")
		return
	}
	limitBody(c, h.maxUploadBytes)
	doc, err := readFormFile(c, "file")
	if err != nil {
		writeAppError(c, err)
		return
	}
	text, err := h.service.ExtractDocument(c.Request.Context(), doc)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExtractResponse{Name: doc.Name, DocumentText: *text})
}
