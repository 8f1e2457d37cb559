package comparison

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseLens/pkg/errors"
)

// ============================================================================
// External Interfaces
// ============================================================================

// Extractor turns document bytes into text. Any error aborts the run.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (*domain.DocumentText, error)
}

// ResultCache memoizes analyses. It is an optimisation only; failures fall
// back to computing the analysis.
type ResultCache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
}

// Metrics records comparison runs.
type Metrics interface {
	RecordComparison(summary domain.ComparisonSummary, level domain.RiskLevel, duration time.Duration)
	RecordExtraction(pages int, duration time.Duration, err error)
	RecordCacheLookup(hit bool)
}

// ============================================================================
// DTOs
// ============================================================================

// Document is an uploaded file.
type Document struct {
	Name string
	Data []byte
}

// TextDocument is a document whose text is already known.
type TextDocument struct {
	Name     string
	Text     string
	Metadata domain.DocumentMetadata
}

// ============================================================================
// Service Interface & Implementation
// ============================================================================

// Service runs comparisons over documents and texts.
type Service interface {
	CompareDocuments(ctx context.Context, original, revised Document) (*domain.ReportData, error)
	CompareTexts(ctx context.Context, original, revised TextDocument) (*domain.ReportData, error)
	ExtractDocument(ctx context.Context, doc Document) (*domain.DocumentText, error)
	Engine() *Engine
}

// ServiceConfig tunes caching.
type ServiceConfig struct {
	CacheTTL time.Duration
}

type comparisonServiceImpl struct {
	engine    *Engine
	extractor Extractor
	cache     ResultCache
	metrics   Metrics
	cfg       ServiceConfig
	logger    logging.Logger
	now       func() time.Time
}

// NewService wires the engine with its collaborators. cache and metrics may
// be nil.
func NewService(engine *Engine, extractor Extractor, cache ResultCache, metrics Metrics, cfg ServiceConfig, logger logging.Logger) Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &comparisonServiceImpl{
		engine:    engine,
		extractor: extractor,
		cache:     cache,
		metrics:   metrics,
		cfg:       cfg,
		logger:    logger.Named("service"),
		now:       time.Now,
	}
}

func (s *comparisonServiceImpl) Engine() *Engine { return s.engine }

// ExtractDocument runs the extraction boundary on a single document.
func (s *comparisonServiceImpl) ExtractDocument(ctx context.Context, doc Document) (*domain.DocumentText, error) {
	if s.extractor == nil {
		return nil, errors.New(errors.ErrCodeExtractorUnavailable, "no extractor configured")
	}
	start := time.Now()
	text, err := s.extractor.Extract(ctx, doc.Data)
	if s.metrics != nil {
		pages := 0
		if text != nil {
			pages = text.Metadata.NumPages
		}
		s.metrics.RecordExtraction(pages, time.Since(start), err)
	}
	if err != nil {
		s.logger.Warn("extraction failed", logging.String("document", doc.Name), logging.Err(err))
		if errors.GetCode(err) == errors.CodeUnknown {
			return nil, errors.Wrap(err, errors.ErrCodeExtractionFailed, "failed to extract "+doc.Name)
		}
		return nil, err
	}
	return text, nil
}

// CompareDocuments extracts both documents concurrently. The first
// extraction failure cancels the other and aborts the run before diffing.
func (s *comparisonServiceImpl) CompareDocuments(ctx context.Context, original, revised Document) (*domain.ReportData, error) {
	var origText, revText *domain.DocumentText
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.ExtractDocument(gctx, original)
		origText = t
		return err
	})
	g.Go(func() error {
		t, err := s.ExtractDocument(gctx, revised)
		revText = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s.CompareTexts(ctx,
		TextDocument{Name: original.Name, Text: origText.FullText, Metadata: origText.Metadata},
		TextDocument{Name: revised.Name, Text: revText.FullText, Metadata: revText.Metadata},
	)
}

// CompareTexts runs the full pipeline, consulting the cache first. Each call
// gets a fresh run id even when the analysis comes from the cache.
func (s *comparisonServiceImpl) CompareTexts(ctx context.Context, original, revised TextDocument) (*domain.ReportData, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := s.logger.With(logging.String("run_id", runID))

	analysis, err := s.analyze(ctx, original.Text, revised.Text, log)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordComparison(analysis.Result.Summary, analysis.Insights.RiskAssessment.Level, time.Since(start))
	}
	log.Info("comparison completed",
		logging.String("original", original.Name),
		logging.String("revised", revised.Name),
		logging.Int("changes", analysis.Result.Summary.TotalChanges),
		logging.Int("risk_score", analysis.Insights.RiskAssessment.Score),
		logging.Duration("duration", time.Since(start)),
	)

	return &domain.ReportData{
		RunID:       runID,
		Result:      analysis.Result,
		KeyChanges:  analysis.KeyChanges,
		Insights:    analysis.Insights,
		SideBySide:  analysis.SideBySide,
		Original:    domain.DocumentInfo{Name: original.Name, Metadata: original.Metadata},
		Revised:     domain.DocumentInfo{Name: revised.Name, Metadata: revised.Metadata},
		GeneratedAt: s.now().UTC(),
	}, nil
}

func (s *comparisonServiceImpl) analyze(ctx context.Context, original, revised string, log logging.Logger) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "comparison cancelled")
	}
	if s.cache == nil {
		a := s.engine.Analyze(original, revised)
		return &a, nil
	}

	computed := false
	var out Analysis
	err := s.cache.GetOrSet(ctx, CacheKey(s.engine.Options(), original, revised), &out, s.cfg.CacheTTL,
		func(context.Context) (interface{}, error) {
			computed = true
			a := s.engine.Analyze(original, revised)
			return &a, nil
		})
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(err == nil && !computed)
	}
	if err != nil {
		log.Warn("result cache unavailable, computing directly", logging.Err(err))
		a := s.engine.Analyze(original, revised)
		return &a, nil
	}
	return &out, nil
}

// CacheKey identifies an analysis by the engine options and both texts.
func CacheKey(opts Options, original, revised string) string {
	h := sha256.New()
	var buf [8]byte
	for _, f := range []float64{opts.PairingLower, opts.PairingUpper, opts.AlignmentThreshold} {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	binary.BigEndian.PutUint64(buf[:], uint64(opts.MaxDiffCells))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(len(original)))
	h.Write(buf[:])
	h.Write([]byte(original))
	h.Write([]byte(revised))
	return "comparison:" + hex.EncodeToString(h.Sum(nil))
}
