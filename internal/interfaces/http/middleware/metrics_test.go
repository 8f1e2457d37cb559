package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method, path string
	status, size int
}

type fakeHTTPMetrics struct {
	mu       sync.Mutex
	requests []recordedRequest
	active   int
}

func (f *fakeHTTPMetrics) RecordHTTPRequest(method, path string, status int, _ time.Duration, size int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{method, path, status, size})
}

func (f *fakeHTTPMetrics) IncActiveRequests(string) { f.mu.Lock(); f.active++; f.mu.Unlock() }
func (f *fakeHTTPMetrics) DecActiveRequests(string) { f.mu.Lock(); f.active--; f.mu.Unlock() }

func TestMetrics_RecordsRouteTemplate(t *testing.T) {
	m := &fakeHTTPMetrics{}
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/v1/reports/:id", func(c *gin.Context) { c.String(http.StatusOK, "report") })

	serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/reports/abc", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, m.requests, 2)
	assert.Equal(t, recordedRequest{"GET", "/api/v1/reports/:id", http.StatusOK, 6}, m.requests[0])
	assert.Equal(t, "unmatched", m.requests[1].path)
	assert.Equal(t, http.StatusNotFound, m.requests[1].status)
	assert.Equal(t, 0, m.active)
}
