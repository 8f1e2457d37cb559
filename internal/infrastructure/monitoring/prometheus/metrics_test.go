package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
)

func TestAppMetrics_RecordComparison(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.RecordComparison(domain.ComparisonSummary{TotalChanges: 3, Added: 1, Removed: 1, Modified: 1}, domain.RiskMedium, 200*time.Millisecond)
	m.RecordComparison(domain.ComparisonSummary{}, domain.RiskLow, time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_comparisons_total{risk_level="medium"} 1`)
	assert.Contains(t, out, `test_unit_comparisons_total{risk_level="low"} 1`)
	assert.Contains(t, out, "test_unit_comparison_duration_seconds_count 2")
	assert.Contains(t, out, `test_unit_comparison_changes_count{type="added"} 2`)
}

func TestAppMetrics_RecordExtraction(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.RecordExtraction(4, time.Second, nil)
	m.RecordExtraction(0, time.Second, errors.New("pdftotext failed"))

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_extractions_total{status="success"} 1`)
	assert.Contains(t, out, `test_unit_extractions_total{status="failure"} 1`)
	assert.Contains(t, out, "test_unit_extraction_pages_count 1")
}

func TestAppMetrics_RecordCacheLookup(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_result_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, out, `test_unit_result_cache_lookups_total{result="miss"} 2`)
}

func TestAppMetrics_RecordReport(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.RecordReport(3, 45000, 80*time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, "test_unit_reports_total 1")
	assert.Contains(t, out, "test_unit_report_pages_sum 3")
	assert.Contains(t, out, "test_unit_report_size_bytes_sum 45000")
}

func TestAppMetrics_HTTPAndMessaging(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.RecordHTTPRequest("POST", "/api/v1/comparisons", 200, 10*time.Millisecond, 512)
	m.IncActiveRequests("POST")
	m.IncActiveRequests("POST")
	m.DecActiveRequests("POST")
	m.RecordMessage("clauselens.comparison.requested", "success", time.Second)
	m.SetHealth("redis", true)
	m.SetHealth("minio", false)
	m.RecordError("worker", "EXT_001")

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_http_requests_total{method="POST",path="/api/v1/comparisons",status_code="200"} 1`)
	assert.Contains(t, out, `test_unit_http_active_requests{method="POST"} 1`)
	assert.Contains(t, out, `test_unit_messages_processed_total{outcome="success",topic="clauselens.comparison.requested"} 1`)
	assert.Contains(t, out, `test_unit_health_check_status{component="redis"} 1`)
	assert.Contains(t, out, `test_unit_health_check_status{component="minio"} 0`)
	assert.Contains(t, out, `test_unit_errors_total{code="EXT_001",component="worker"} 1`)
}
