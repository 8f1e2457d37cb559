package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/ClauseLens/internal/application/worker"
	"github.com/turtacn/ClauseLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseLens/internal/interfaces/http/middleware"
	"github.com/turtacn/ClauseLens/pkg/errors"
)

const apiSource = "clauselens-apiserver"

// ObjectWriter stores uploaded documents.
type ObjectWriter interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
}

// ObjectReader reads worker output.
type ObjectReader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// JobStatus values.
const (
	JobQueued    = "queued"
	JobPending   = "pending"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// JobResponse describes an asynchronous comparison run.
type JobResponse struct {
	RunID     string          `json:"runId"`
	Status    string          `json:"status"`
	ResultKey string          `json:"resultKey,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     *ErrorBody      `json:"error,omitempty"`
}

// JobHandler queues comparisons for the worker and reports their status.
type JobHandler struct {
	uploads        ObjectWriter
	results        ObjectReader
	events         worker.EventPublisher
	resultPrefix   string
	maxUploadBytes int64
	logger         logging.Logger
}

func NewJobHandler(uploads ObjectWriter, results ObjectReader, events worker.EventPublisher, resultPrefix string, maxUploadBytes int64, logger logging.Logger) *JobHandler {
	if resultPrefix == "" {
		resultPrefix = "results"
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &JobHandler{
		uploads:        uploads,
		results:        results,
		events:         events,
		resultPrefix:   resultPrefix,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Submit handles POST /api/v1/comparisons/jobs. Both multipart files are
// stored, then a comparison.requested event is published. ?report=true asks
// the worker to archive a PDF report as well.
func (h *JobHandler) Submit(c *gin.Context) {
	if !isMultipart(c) {
		writeValidationError(c, "multipart/form-data body with \"original\" and \"revised\" files is required")
		return
	}
	limitBody(c, h.maxUploadBytes)
	original, revised, err := readDocumentPair(c)
	if err != nil {
		writeAppError(c, err)
		return
	}
	report, _ := strconv.ParseBool(c.Query("report"))

	ctx := c.Request.Context()
	runID := uuid.New().String()
	refs := make([]kafka.DocumentRef, 0, 2)
	for _, doc := range []struct {
		role string
		name string
		data []byte
	}{
		{"original", original.Name, original.Data},
		{"revised", revised.Name, revised.Data},
	} {
		key := path.Join("uploads", runID, doc.role+path.Ext(doc.name))
		if err := h.uploads.Save(ctx, key, doc.data, ""); err != nil {
			writeAppError(c, err)
			return
		}
		refs = append(refs, kafka.DocumentRef{Key: key, Name: doc.name})
	}

	env, err := kafka.NewEventEnvelope(kafka.EventComparisonRequested, apiSource, kafka.ComparisonRequestedPayload{
		RunID:          runID,
		Original:       refs[0],
		Revised:        refs[1],
		GenerateReport: report,
		RequestedBy:    c.ClientIP(),
	})
	if err != nil {
		writeAppError(c, err)
		return
	}
	if id := middleware.GetRequestID(c); id != "" {
		env.TraceID = id
	}
	if err := h.events.PublishEvent(ctx, kafka.TopicComparisonRequested, runID, env); err != nil {
		writeAppError(c, err)
		return
	}

	h.logger.Info("comparison job queued",
		logging.String("run_id", runID),
		logging.String("original", original.Name),
		logging.String("revised", revised.Name),
		logging.Bool("report", report))

	c.JSON(http.StatusAccepted, JobResponse{
		RunID:     runID,
		Status:    JobQueued,
		ResultKey: worker.ResultKey(h.resultPrefix, runID),
	})
}

// Status handles GET /api/v1/comparisons/jobs/:runId. A run with neither a
// result nor a failure record is pending.
func (h *JobHandler) Status(c *gin.Context) {
	runID := c.Param("runId")
	if _, err := uuid.Parse(runID); err != nil {
		writeValidationError(c, "runId must be a UUID")
		return
	}
	ctx := c.Request.Context()
	resultKey := worker.ResultKey(h.resultPrefix, runID)

	body, err := h.results.Get(ctx, resultKey)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, JobResponse{RunID: runID, Status: JobCompleted, ResultKey: resultKey, Result: body})
		return
	case !errors.IsNotFound(err):
		writeAppError(c, err)
		return
	}

	record, err := h.results.Get(ctx, worker.FailureKey(h.resultPrefix, runID))
	switch {
	case err == nil:
		var failed kafka.ComparisonFailedPayload
		if jerr := json.Unmarshal(record, &failed); jerr != nil {
			writeAppError(c, errors.Wrap(jerr, errors.ErrCodeSerialization, "corrupt failure record"))
			return
		}
		c.JSON(http.StatusOK, JobResponse{
			RunID:  runID,
			Status: JobFailed,
			Error:  &ErrorBody{Code: failed.Code, Message: failed.Message},
		})
	case errors.IsNotFound(err):
		c.JSON(http.StatusAccepted, JobResponse{RunID: runID, Status: JobPending, ResultKey: resultKey})
	default:
		writeAppError(c, err)
	}
}
