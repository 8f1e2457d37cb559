package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ClauseLens/internal/application/comparison"
	"github.com/turtacn/ClauseLens/internal/application/reporting"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
)

// ReportHandler runs a comparison and renders the PDF report.
type ReportHandler struct {
	compare        comparison.Service
	reports        reporting.Service
	maxUploadBytes int64
	logger         logging.Logger
}

func NewReportHandler(compare comparison.Service, reports reporting.Service, maxUploadBytes int64, logger logging.Logger) *ReportHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ReportHandler{compare: compare, reports: reports, maxUploadBytes: maxUploadBytes, logger: logger}
}

// Generate handles POST /api/v1/reports. The body has the same shapes as
// POST /api/v1/comparisons. The PDF is streamed back as an attachment, or
// with ?archive=true stored in object storage and described as JSON.
func (h *ReportHandler) Generate(c *gin.Context) {
	archive, _ := strconv.ParseBool(c.Query("archive"))

	data, ok := compareFromRequest(c, h.compare, h.maxUploadBytes)
	if !ok {
		return
	}

	report, err := h.reports.GenerateComparisonReport(*data, data.Original.Name, data.Revised.Name)
	if err != nil {
		writeAppError(c, err)
		return
	}

	if archive {
		stored, err := h.reports.Archive(c.Request.Context(), data.RunID, report)
		if err != nil {
			writeAppError(c, err)
			return
		}
		c.JSON(http.StatusCreated, stored)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Header("X-Run-ID", data.RunID)
	c.Data(http.StatusOK, reporting.ContentTypePDF, report.Bytes())
}
