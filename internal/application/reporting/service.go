// Package reporting renders comparison results into paginated PDF reports
// and optionally archives them in object storage.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseLens/pkg/errors"
)

// ============================================================================
// External Interfaces
// ============================================================================

// ObjectStorage stores rendered reports and hands out download links.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Metrics records report generation.
type Metrics interface {
	RecordReport(pages, size int, duration time.Duration)
}

// ============================================================================
// DTOs
// ============================================================================

// StoredReport describes an archived report.
type StoredReport struct {
	Key         string    `json:"key"`
	FileName    string    `json:"fileName"`
	Size        int       `json:"size"`
	Pages       int       `json:"pages"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
	StoredAt    time.Time `json:"storedAt"`
}

// ============================================================================
// Service Interface & Implementation
// ============================================================================

// Service generates comparison reports.
type Service interface {
	GenerateComparisonReport(data domain.ReportData, originalName, revisedName string) (*Report, error)
	Archive(ctx context.Context, runID string, report *Report) (*StoredReport, error)
}

// ServiceConfig controls archiving.
type ServiceConfig struct {
	KeyPrefix string
	URLExpiry time.Duration
}

type reportServiceImpl struct {
	renderer *Renderer
	storage  ObjectStorage
	metrics  Metrics
	cfg      ServiceConfig
	logger   logging.Logger
}

// NewService wires the renderer with optional storage and metrics. A nil
// storage makes Archive fail with ErrCodeServiceUnavailable.
func NewService(renderer *Renderer, storage ObjectStorage, metrics Metrics, cfg ServiceConfig, logger logging.Logger) Service {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "reports"
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = 24 * time.Hour
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &reportServiceImpl{
		renderer: renderer,
		storage:  storage,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger.Named("reporting"),
	}
}

// GenerateComparisonReport renders data. The names label the two documents
// and fall back to the names carried in data.
func (s *reportServiceImpl) GenerateComparisonReport(data domain.ReportData, originalName, revisedName string) (*Report, error) {
	start := time.Now()
	if originalName == "" {
		originalName = data.Original.Name
	}
	if revisedName == "" {
		revisedName = data.Revised.Name
	}
	report, err := s.renderer.Render(data, originalName, revisedName)
	if err != nil {
		s.logger.Error("report rendering failed", logging.String("run_id", data.RunID), logging.Err(err))
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordReport(report.Pages, report.Size(), time.Since(start))
	}
	s.logger.Info("report generated",
		logging.String("run_id", data.RunID),
		logging.String("file", report.FileName),
		logging.Int("pages", report.Pages),
		logging.Duration("duration", time.Since(start)),
	)
	return report, nil
}

// Archive uploads the report under <prefix>/<runID>/<file name> and returns a
// presigned download link.
func (s *reportServiceImpl) Archive(ctx context.Context, runID string, report *Report) (*StoredReport, error) {
	if s.storage == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "report storage is not configured")
	}
	if report == nil || report.Size() == 0 {
		return nil, errors.InvalidParam("report is empty")
	}
	if runID == "" {
		runID = uuid.New().String()
	}
	key := fmt.Sprintf("%s/%s/%s", s.cfg.KeyPrefix, runID, report.FileName)
	if err := s.storage.Save(ctx, key, report.Bytes(), ContentTypePDF); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeReportSaveFailed, "failed to archive report")
	}
	url, err := s.storage.PresignedURL(ctx, key, s.cfg.URLExpiry)
	if err != nil {
		// The object is stored; only the link is missing.
		s.logger.Warn("presign failed", logging.String("key", key), logging.Err(err))
	}
	s.logger.Info("report archived", logging.String("key", key), logging.Int("bytes", report.Size()))
	return &StoredReport{
		Key:         key,
		FileName:    report.FileName,
		Size:        report.Size(),
		Pages:       report.Pages,
		DownloadURL: url,
		StoredAt:    time.Now().UTC(),
	}, nil
}
