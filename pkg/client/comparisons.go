package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/turtacn/ClauseLens/internal/application/reporting"
	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
)

// Response types shared with the server.
type (
	ReportData        = domain.ReportData
	ChangeRecord      = domain.ChangeRecord
	KeyChanges        = domain.KeyChanges
	Insights          = domain.Insights
	SideBySidePoint   = domain.SideBySidePoint
	DocumentText      = domain.DocumentText
	StoredReport      = reporting.StoredReport
	ComparisonSummary = domain.ComparisonSummary
)

// TextDocument is a document submitted as plain text.
type TextDocument struct {
	Name string `json:"name,omitempty"`
	Text string `json:"text"`
}

// File is a document submitted as a multipart upload.
type File struct {
	Name string
	Data []byte
}

// ReportFile is a rendered PDF report.
type ReportFile struct {
	FileName string
	RunID    string
	Data     []byte
}

// ExtractedDocument is the text the server extracted from one upload.
type ExtractedDocument struct {
	Name string `json:"name"`
	DocumentText
}

// Job statuses.
const (
	JobQueued    = "queued"
	JobPending   = "pending"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// Job is an asynchronous comparison run.
type Job struct {
	RunID     string          `json:"runId"`
	Status    string          `json:"status"`
	ResultKey string          `json:"resultKey,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     *APIError       `json:"error,omitempty"`
}

// Done reports whether the run reached a final state.
func (j *Job) Done() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}

// ReportData decodes the result of a completed run.
func (j *Job) ReportData() (*ReportData, error) {
	if j.Status != JobCompleted || len(j.Result) == 0 {
		return nil, fmt.Errorf("clauselens: run %s has no result (status %s)", j.RunID, j.Status)
	}
	var data ReportData
	if err := json.Unmarshal(j.Result, &data); err != nil {
		return nil, fmt.Errorf("failed to decode run result: %w", err)
	}
	return &data, nil
}

type compareRequest struct {
	Original TextDocument `json:"original"`
	Revised  TextDocument `json:"revised"`
}

// multipartBody encodes files under their form field names.
func multipartBody(fields []string, files []File) requestBody {
	return func() (io.Reader, string, error) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for i, f := range files {
			w, err := mw.CreateFormFile(fields[i], f.Name)
			if err != nil {
				return nil, "", err
			}
			if _, err := w.Write(f.Data); err != nil {
				return nil, "", err
			}
		}
		if err := mw.Close(); err != nil {
			return nil, "", err
		}
		return &buf, mw.FormDataContentType(), nil
	}
}

func pairBody(original, revised File) requestBody {
	return multipartBody([]string{"original", "revised"}, []File{original, revised})
}

// CompareTexts runs the full pipeline on two plain texts.
func (c *Client) CompareTexts(ctx context.Context, original, revised TextDocument) (*ReportData, error) {
	var data ReportData
	if err := c.post(ctx, "/api/v1/comparisons", compareRequest{Original: original, Revised: revised}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// CompareFiles uploads two documents (PDF or UTF-8 text) and compares them.
func (c *Client) CompareFiles(ctx context.Context, original, revised File) (*ReportData, error) {
	var data ReportData
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/comparisons", pairBody(original, revised), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// KeyChanges categorizes change records.
func (c *Client) KeyChanges(ctx context.Context, changes []ChangeRecord) (KeyChanges, error) {
	var out KeyChanges
	body := struct {
		Changes []ChangeRecord `json:"changes"`
	}{changes}
	if err := c.post(ctx, "/api/v1/comparisons/key-changes", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Insights derives the risk assessment and recommendations of a change set.
// keyChanges may be nil.
func (c *Client) Insights(ctx context.Context, changes []ChangeRecord, keyChanges KeyChanges) (*Insights, error) {
	var out Insights
	body := struct {
		Changes    []ChangeRecord `json:"changes"`
		KeyChanges KeyChanges     `json:"keyChanges,omitempty"`
	}{changes, keyChanges}
	if err := c.post(ctx, "/api/v1/comparisons/insights", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SideBySide aligns two texts.
func (c *Client) SideBySide(ctx context.Context, original, revised string, changes []ChangeRecord) ([]SideBySidePoint, error) {
	var out struct {
		Points []SideBySidePoint `json:"points"`
	}
	body := struct {
		Original string         `json:"original"`
		Revised  string         `json:"revised"`
		Changes  []ChangeRecord `json:"changes"`
	}{original, revised, changes}
	if err := c.post(ctx, "/api/v1/comparisons/side-by-side", body, &out); err != nil {
		return nil, err
	}
	return out.Points, nil
}

// ExtractDocument returns the text the server extracts from file.
func (c *Client) ExtractDocument(ctx context.Context, file File) (*ExtractedDocument, error) {
	var out ExtractedDocument
	body := multipartBody([]string{"file"}, []File{file})
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/documents/extract", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateReport compares two documents and downloads the PDF report.
func (c *Client) GenerateReport(ctx context.Context, original, revised File) (*ReportFile, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/reports", pairBody(original, revised), "application/pdf")
	if err != nil {
		return nil, err
	}
	return &ReportFile{
		FileName: attachmentName(resp.header.Get("Content-Disposition")),
		RunID:    resp.header.Get("X-Run-ID"),
		Data:     resp.body,
	}, nil
}

// ArchiveReport compares two documents and stores the report server side.
func (c *Client) ArchiveReport(ctx context.Context, original, revised File) (*StoredReport, error) {
	var out StoredReport
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/reports?archive=true", pairBody(original, revised), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitJob queues a comparison for the worker.
func (c *Client) SubmitJob(ctx context.Context, original, revised File, withReport bool) (*Job, error) {
	path := "/api/v1/comparisons/jobs"
	if withReport {
		path += "?report=true"
	}
	var job Job
	if err := c.doJSON(ctx, http.MethodPost, path, pairBody(original, revised), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// JobStatus fetches the state of a run.
func (c *Client) JobStatus(ctx context.Context, runID string) (*Job, error) {
	var job Job
	if err := c.get(ctx, "/api/v1/comparisons/jobs/"+url.PathEscape(runID), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// WaitForJob polls JobStatus every interval until the run is done or ctx
// ends.
func (c *Client) WaitForJob(ctx context.Context, runID string, interval time.Duration) (*Job, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		job, err := c.JobStatus(ctx, runID)
		if err != nil {
			return nil, err
		}
		if job.Done() {
			return job, nil
		}
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Health calls the readiness probe.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/readyz", nil)
}

func attachmentName(disposition string) string {
	const marker = "filename="
	i := strings.Index(disposition, marker)
	if i < 0 {
		return ""
	}
	return strings.Trim(disposition[i+len(marker):], `"`)
}
