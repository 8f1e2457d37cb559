package prometheus

import (
	"strconv"
	"time"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
)

// AppMetrics holds every ClauseLens metric.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPResponseSize    HistogramVec
	HTTPActiveRequests  GaugeVec

	// Comparison
	ComparisonsTotal        CounterVec
	ComparisonDuration      HistogramVec
	ComparisonChanges       HistogramVec
	ExtractionsTotal        CounterVec
	ExtractionDuration      HistogramVec
	ExtractionPages         HistogramVec
	ResultCacheLookupsTotal CounterVec

	// Reports
	ReportsTotal    CounterVec
	ReportDuration  HistogramVec
	ReportSizeBytes HistogramVec
	ReportPages     HistogramVec

	// Messaging
	MessagesProcessedTotal CounterVec
	MessageProcessDuration HistogramVec

	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultPipelineBuckets     = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	DefaultSizeBuckets         = []float64{1000, 10000, 100000, 1000000, 10000000}
	DefaultCountBuckets        = []float64{0, 1, 5, 10, 25, 50, 100, 250, 500}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPResponseSize = collector.RegisterHistogram("http_response_size_bytes", "HTTP response size", DefaultSizeBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.ComparisonsTotal = collector.RegisterCounter("comparisons_total", "Completed comparisons by risk level", "risk_level")
	m.ComparisonDuration = collector.RegisterHistogram("comparison_duration_seconds", "Comparison pipeline duration", DefaultPipelineBuckets)
	m.ComparisonChanges = collector.RegisterHistogram("comparison_changes", "Changes found per comparison", DefaultCountBuckets, "type")
	m.ExtractionsTotal = collector.RegisterCounter("extractions_total", "Document extractions", "status")
	m.ExtractionDuration = collector.RegisterHistogram("extraction_duration_seconds", "Document extraction duration", DefaultPipelineBuckets)
	m.ExtractionPages = collector.RegisterHistogram("extraction_pages", "Pages per extracted document", DefaultCountBuckets)
	m.ResultCacheLookupsTotal = collector.RegisterCounter("result_cache_lookups_total", "Comparison result cache lookups", "result")

	m.ReportsTotal = collector.RegisterCounter("reports_total", "Rendered PDF reports")
	m.ReportDuration = collector.RegisterHistogram("report_duration_seconds", "Report rendering duration", DefaultPipelineBuckets)
	m.ReportSizeBytes = collector.RegisterHistogram("report_size_bytes", "Rendered report size", DefaultSizeBuckets)
	m.ReportPages = collector.RegisterHistogram("report_pages", "Pages per rendered report", DefaultCountBuckets)

	m.MessagesProcessedTotal = collector.RegisterCounter("messages_processed_total", "Consumed messages by outcome", "topic", "outcome")
	m.MessageProcessDuration = collector.RegisterHistogram("message_process_duration_seconds", "Message handling duration", DefaultPipelineBuckets, "topic")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "code")

	return m
}

// RecordComparison satisfies the comparison service's metrics sink.
func (m *AppMetrics) RecordComparison(summary domain.ComparisonSummary, level domain.RiskLevel, duration time.Duration) {
	m.ComparisonsTotal.WithLabelValues(string(level)).Inc()
	m.ComparisonDuration.WithLabelValues().Observe(duration.Seconds())
	m.ComparisonChanges.WithLabelValues("added").Observe(float64(summary.Added))
	m.ComparisonChanges.WithLabelValues("removed").Observe(float64(summary.Removed))
	m.ComparisonChanges.WithLabelValues("modified").Observe(float64(summary.Modified))
}

func (m *AppMetrics) RecordExtraction(pages int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.ExtractionsTotal.WithLabelValues(status).Inc()
	m.ExtractionDuration.WithLabelValues().Observe(duration.Seconds())
	if err == nil {
		m.ExtractionPages.WithLabelValues().Observe(float64(pages))
	}
}

func (m *AppMetrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ResultCacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordReport satisfies the reporting service's metrics sink.
func (m *AppMetrics) RecordReport(pages, size int, duration time.Duration) {
	m.ReportsTotal.WithLabelValues().Inc()
	m.ReportDuration.WithLabelValues().Observe(duration.Seconds())
	m.ReportSizeBytes.WithLabelValues().Observe(float64(size))
	m.ReportPages.WithLabelValues().Observe(float64(pages))
}

func (m *AppMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration, respSize int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	if respSize >= 0 {
		m.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
	}
}

func (m *AppMetrics) IncActiveRequests(method string) {
	m.HTTPActiveRequests.WithLabelValues(method).Inc()
}

func (m *AppMetrics) DecActiveRequests(method string) {
	m.HTTPActiveRequests.WithLabelValues(method).Dec()
}

func (m *AppMetrics) RecordMessage(topic, outcome string, duration time.Duration) {
	m.MessagesProcessedTotal.WithLabelValues(topic, outcome).Inc()
	m.MessageProcessDuration.WithLabelValues(topic).Observe(duration.Seconds())
}

func (m *AppMetrics) SetHealth(component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

func (m *AppMetrics) RecordError(component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}
