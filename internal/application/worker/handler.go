// Package worker processes comparison requests delivered over Kafka.
package worker

import (
	"context"
	"encoding/json"
	"path"
	"time"

	"github.com/turtacn/ClauseLens/internal/application/comparison"
	"github.com/turtacn/ClauseLens/internal/application/reporting"
	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
	"github.com/turtacn/ClauseLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseLens/pkg/errors"
)

// ============================================================================
// External Interfaces
// ============================================================================

// DocumentStore reads uploaded documents.
type DocumentStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// ResultStore persists analysis JSON next to archived reports.
type ResultStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// RunLock claims a run so redelivered requests are processed once.
type RunLock interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

// LockProvider returns the lock guarding runID.
type LockProvider func(runID string) RunLock

// EventPublisher emits outcome events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, env *kafka.EventEnvelope) error
}

// ============================================================================
// Handler
// ============================================================================

const Source = "clauselens-worker"

// Config for the comparison handler.
type Config struct {
	ResultPrefix string `mapstructure:"result_prefix"`
}

// ComparisonHandler turns a comparison.requested event into stored results
// and a completed or failed event.
type ComparisonHandler struct {
	documents DocumentStore
	results   ResultStore
	locks     LockProvider
	compare   comparison.Service
	reports   reporting.Service
	events    EventPublisher
	cfg       Config
	logger    logging.Logger
	now       func() time.Time
}

// NewComparisonHandler wires the handler. locks and reports may be nil: runs
// are then unguarded and report requests are ignored.
func NewComparisonHandler(
	documents DocumentStore,
	results ResultStore,
	locks LockProvider,
	compare comparison.Service,
	reports reporting.Service,
	events EventPublisher,
	cfg Config,
	logger logging.Logger,
) *ComparisonHandler {
	if cfg.ResultPrefix == "" {
		cfg.ResultPrefix = "results"
	}
	return &ComparisonHandler{
		documents: documents,
		results:   results,
		locks:     locks,
		compare:   compare,
		reports:   reports,
		events:    events,
		cfg:       cfg,
		logger:    logger.Named("worker"),
		now:       time.Now,
	}
}

// ResultKey is where the JSON analysis for runID is stored under prefix.
func ResultKey(prefix, runID string) string {
	return path.Join(prefix, runID+".json")
}

// FailureKey is where the failure record for runID is stored under prefix.
func FailureKey(prefix, runID string) string {
	return path.Join(prefix, runID+".failed.json")
}

// ResultKey is where the JSON analysis for runID is stored.
func (h *ComparisonHandler) ResultKey(runID string) string {
	return ResultKey(h.cfg.ResultPrefix, runID)
}

// Handle implements kafka.MessageHandler. A returned error asks the consumer
// to retry; permanent failures are reported as failed events and return nil.
func (h *ComparisonHandler) Handle(ctx context.Context, msg *kafka.Message) error {
	env, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		return err
	}
	var req kafka.ComparisonRequestedPayload
	if err := env.DecodePayload(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	log := h.logger.With(logging.String("run_id", req.RunID))

	if h.locks != nil {
		lock := h.locks(req.RunID)
		ok, err := lock.TryLock(ctx)
		if err != nil {
			return err
		}
		if !ok {
			log.Info("run already claimed by another worker")
			return nil
		}
		defer func() {
			if err := lock.Unlock(context.Background()); err != nil {
				log.Warn("failed to release run lock", logging.Err(err))
			}
		}()
	}

	done, err := h.results.Exists(ctx, h.ResultKey(req.RunID))
	if err != nil {
		return err
	}
	if done {
		log.Info("run already completed, skipping")
		return nil
	}

	start := h.now()
	completed, err := h.process(ctx, req)
	if err != nil {
		if retryable(err) {
			log.Warn("comparison run failed, will retry", logging.Err(err))
			return err
		}
		log.Error("comparison run failed", logging.Err(err))
		return h.publishFailed(ctx, req.RunID, err)
	}

	completed.DurationMs = h.now().Sub(start).Milliseconds()
	completed.CompletedAt = h.now().UTC()
	out, err := kafka.NewEventEnvelope(kafka.EventComparisonCompleted, Source, completed)
	if err != nil {
		return err
	}
	out.TraceID = env.TraceID
	if err := h.events.PublishEvent(ctx, kafka.TopicComparisonCompleted, req.RunID, out); err != nil {
		return err
	}
	log.Info("comparison run completed",
		logging.Int("changes", completed.TotalChanges),
		logging.String("risk_level", completed.RiskLevel),
		logging.Int64("duration_ms", completed.DurationMs))
	return nil
}

func (h *ComparisonHandler) process(ctx context.Context, req kafka.ComparisonRequestedPayload) (*kafka.ComparisonCompletedPayload, error) {
	original, err := h.load(ctx, req.Original)
	if err != nil {
		return nil, err
	}
	revised, err := h.load(ctx, req.Revised)
	if err != nil {
		return nil, err
	}

	data, err := h.compare.CompareDocuments(ctx, original, revised)
	if err != nil {
		return nil, err
	}
	data.RunID = req.RunID

	completed := &kafka.ComparisonCompletedPayload{
		RunID:        req.RunID,
		TotalChanges: data.Result.Summary.TotalChanges,
		Added:        data.Result.Summary.Added,
		Removed:      data.Result.Summary.Removed,
		Modified:     data.Result.Summary.Modified,
		RiskScore:    data.Insights.RiskAssessment.Score,
		RiskLevel:    string(data.Insights.RiskAssessment.Level),
	}

	if req.GenerateReport && h.reports != nil {
		report, err := h.reports.GenerateComparisonReport(*data, original.Name, revised.Name)
		if err != nil {
			return nil, err
		}
		stored, err := h.reports.Archive(ctx, req.RunID, report)
		if err != nil {
			return nil, err
		}
		completed.ReportKey = stored.Key
		completed.ReportURL = stored.DownloadURL
	}

	// The result is written last; its presence marks the run as done.
	if err := h.saveResult(ctx, data); err != nil {
		return nil, err
	}
	completed.ResultKey = h.ResultKey(req.RunID)
	return completed, nil
}

func (h *ComparisonHandler) load(ctx context.Context, ref kafka.DocumentRef) (comparison.Document, error) {
	data, err := h.documents.Get(ctx, ref.Key)
	if err != nil {
		return comparison.Document{}, err
	}
	name := ref.Name
	if name == "" {
		name = path.Base(ref.Key)
	}
	return comparison.Document{Name: name, Data: data}, nil
}

func (h *ComparisonHandler) saveResult(ctx context.Context, data *domain.ReportData) error {
	body, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode comparison result")
	}
	return h.results.Save(ctx, h.ResultKey(data.RunID), body, "application/json")
}

func (h *ComparisonHandler) publishFailed(ctx context.Context, runID string, cause error) error {
	code := errors.GetCode(cause)
	if code == errors.CodeUnknown {
		code = errors.ErrCodeComparisonFailed
	}
	failed := kafka.ComparisonFailedPayload{
		RunID:    runID,
		Code:     code.String(),
		Message:  cause.Error(),
		FailedAt: h.now().UTC(),
	}
	// the failure record only feeds status queries; the event is authoritative
	if body, err := json.Marshal(failed); err == nil {
		if err := h.results.Save(ctx, FailureKey(h.cfg.ResultPrefix, runID), body, "application/json"); err != nil {
			h.logger.Warn("failed to store failure record", logging.String("run_id", runID), logging.Err(err))
		}
	}
	env, err := kafka.NewEventEnvelope(kafka.EventComparisonFailed, Source, failed)
	if err != nil {
		return err
	}
	return h.events.PublishEvent(ctx, kafka.TopicComparisonFailed, runID, env)
}

// retryable reports whether err comes from an infrastructure hiccup rather
// than the documents themselves.
func retryable(err error) bool {
	switch errors.GetCode(err) {
	case errors.ErrCodeTimeout,
		errors.ErrCodeServiceUnavailable,
		errors.ErrCodeStorageError,
		errors.ErrCodeCacheError,
		errors.ErrCodeMessagingError,
		errors.ErrCodeReportSaveFailed:
		return true
	case errors.CodeUnknown:
		return true
	}
	return false
}
