package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ClauseLens/internal/application/comparison"
	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
)

// CompareRequest compares two texts.
type CompareRequest struct {
	Original TextDocumentRequest `json:"original"`
	Revised  TextDocumentRequest `json:"revised"`
}

// KeyChangesRequest categorizes change records.
type KeyChangesRequest struct {
	Changes []domain.ChangeRecord `json:"changes"`
}

// InsightsRequest derives insights from change records. KeyChanges is
// computed from Changes when omitted.
type InsightsRequest struct {
	Changes    []domain.ChangeRecord `json:"changes"`
	KeyChanges domain.KeyChanges     `json:"keyChanges,omitempty"`
}

// SideBySideRequest aligns two texts, annotating rows with changes.
type SideBySideRequest struct {
	Original string                `json:"original"`
	Revised  string                `json:"revised"`
	Changes  []domain.ChangeRecord `json:"changes"`
}

// SideBySideResponse wraps the aligned rows.
type SideBySideResponse struct {
	Points []domain.SideBySidePoint `json:"points"`
}

// ComparisonHandler serves the engine entry points.
type ComparisonHandler struct {
	service        comparison.Service
	maxUploadBytes int64
	logger         logging.Logger
}

// NewComparisonHandler creates a ComparisonHandler.
func NewComparisonHandler(service comparison.Service, maxUploadBytes int64, logger logging.Logger) *ComparisonHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ComparisonHandler{service: service, maxUploadBytes: maxUploadBytes, logger: logger}
}

// Compare handles POST /api/v1/comparisons. A JSON body compares texts; a
// multipart body with "original" and "revised" files runs extraction first.
func (h *ComparisonHandler) Compare(c *gin.Context) {
	data, ok := compareFromRequest(c, h.service, h.maxUploadBytes)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, data)
}

// compareFromRequest runs a comparison from either request shape and writes
// the error response itself on failure.
func compareFromRequest(c *gin.Context, service comparison.Service, maxUploadBytes int64) (*domain.ReportData, bool) {
	var (
		data *domain.ReportData
		err  error
	)
	if isMultipart(c) {
		limitBody(c, maxUploadBytes)
		original, revised, rerr := readDocumentPair(c)
		if rerr != nil {
			writeAppError(c, rerr)
			return nil, false
		}
		data, err = service.CompareDocuments(c.Request.Context(), original, revised)
	} else {
		var req CompareRequest
		if berr := c.ShouldBindJSON(&req); berr != nil {
			writeValidationError(c, "invalid request body: "+berr.Error())
			return nil, false
		}
		data, err = service.CompareTexts(c.Request.Context(),
			toTextDocument(req.Original, "original"),
			toTextDocument(req.Revised, "revised"),
		)
	}
	if err != nil {
		writeAppError(c, err)
		return nil, false
	}
	return data, true
}

// KeyChanges handles POST /api/v1/comparisons/key-changes.
func (h *ComparisonHandler) KeyChanges(c *gin.Context) {
	var req KeyChangesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, "invalid request body: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, h.service.Engine().ExtractKeyChanges(req.Changes))
}

// Insights handles POST /api/v1/comparisons/insights.
func (h *ComparisonHandler) Insights(c *gin.Context) {
	var req InsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, "invalid request body: "+err.Error())
		return
	}
	engine := h.service.Engine()
	keyChanges := req.KeyChanges
	if keyChanges == nil {
		keyChanges = engine.ExtractKeyChanges(req.Changes)
	}
	c.JSON(http.StatusOK, engine.GenerateInsights(req.Changes, keyChanges))
}

// SideBySide handles POST /api/v1/comparisons/side-by-side.
func (h *ComparisonHandler) SideBySide(c *gin.Context) {
	var req SideBySideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, "invalid request body: "+err.Error())
		return
	}
	points := h.service.Engine().CreateSideBySideComparison(req.Original, req.Revised, req.Changes)
	if points == nil {
		points = []domain.SideBySidePoint{}
	}
	c.JSON(http.StatusOK, SideBySideResponse{Points: points})
}
