package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
)

func comparisonRouter() *gin.Engine {
	h := NewComparisonHandler(newComparisonService(), 1<<20, nil)
	return newEngine(func(r *gin.Engine) {
		r.POST("/api/v1/comparisons", h.Compare)
		r.POST("/api/v1/comparisons/key-changes", h.KeyChanges)
		r.POST("/api/v1/comparisons/insights", h.Insights)
		r.POST("/api/v1/comparisons/side-by-side", h.SideBySide)
	})
}

func TestCompare_JSONTexts(t *testing.T) {
	w := do(comparisonRouter(), jsonRequest(t, http.MethodPost, "/api/v1/comparisons", CompareRequest{
		Original: TextDocumentRequest{Name: "v1.txt", Text: "The fee is $100."},
		Revised:  TextDocumentRequest{Text: "The fee is $500."},
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data domain.ReportData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.NotEmpty(t, data.RunID)
	assert.Equal(t, "v1.txt", data.Original.Name)
	assert.Equal(t, "revised", data.Revised.Name)
	assert.Equal(t, 1, data.Result.Summary.TotalChanges)
	assert.Equal(t, 1, data.Result.Summary.Modified)
	require.Len(t, data.Result.Changes, 1)
	assert.Equal(t, domain.ChangeModified, data.Result.Changes[0].Type)
	assert.Equal(t, 12, data.Insights.RiskAssessment.Score)
	assert.Equal(t, domain.RiskLow, data.Insights.RiskAssessment.Level)
}

func TestCompare_Multipart(t *testing.T) {
	w := do(comparisonRouter(), multipartRequest(t, "/api/v1/comparisons",
		formFile{"original", "a.txt", []byte("The fee is $100.")},
		formFile{"revised", "b.txt", []byte("The fee is $500.")},
	))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data domain.ReportData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Equal(t, "a.txt", data.Original.Name)
	assert.Equal(t, "b.txt", data.Revised.Name)
	assert.Equal(t, 1, data.Result.Summary.Modified)
}

func TestCompare_Errors(t *testing.T) {
	r := comparisonRouter()

	t.Run("malformed json", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/v1/comparisons", nil)
		req.Body = http.NoBody
		w := do(r, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "COMMON_010", decodeError(t, w).Code)
	})

	t.Run("missing revised file", func(t *testing.T) {
		w := do(r, multipartRequest(t, "/api/v1/comparisons",
			formFile{"original", "a.txt", []byte("text")}))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decodeError(t, w).Message, "revised")
	})

	t.Run("empty document fails before diffing", func(t *testing.T) {
		w := do(r, multipartRequest(t, "/api/v1/comparisons",
			formFile{"original", "a.txt", []byte("The fee is $100.")},
			formFile{"revised", "b.txt", []byte{}},
		))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "EXT_004", body.Code)
		assert.NotEmpty(t, body.RequestID)
	})

	t.Run("pdf without extractor", func(t *testing.T) {
		w := do(r, multipartRequest(t, "/api/v1/comparisons",
			formFile{"original", "a.pdf", []byte("%PDF-1.4\n")},
			formFile{"revised", "b.txt", []byte("text")},
		))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "EXT_002", decodeError(t, w).Code)
	})
}

func TestCompare_UploadTooLarge(t *testing.T) {
	h := NewComparisonHandler(newComparisonService(), 64, nil)
	r := newEngine(func(r *gin.Engine) { r.POST("/c", h.Compare) })

	big := make([]byte, 4096)
	for i := range big {
		big[i] = 'a'
	}
	w := do(r, multipartRequest(t, "/c",
		formFile{"original", "a.txt", big},
		formFile{"revised", "b.txt", big},
	))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "CMP_003", decodeError(t, w).Code)
}

func TestKeyChanges(t *testing.T) {
	w := do(comparisonRouter(), jsonRequest(t, http.MethodPost, "/api/v1/comparisons/key-changes", KeyChangesRequest{
		Changes: []domain.ChangeRecord{
			{ID: 1, Type: domain.ChangeAdded, Content: "The payment is due monthly"},
			{ID: 2, Type: domain.ChangeRemoved, Content: "Nothing relevant here"},
		},
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var kc domain.KeyChanges
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &kc))
	require.Len(t, kc[domain.CategoryFinancial], 1)
	assert.Equal(t, domain.ImportanceHigh, kc[domain.CategoryFinancial][0].Importance)
	require.Len(t, kc[domain.CategoryOther], 1)
	assert.Equal(t, 2, kc[domain.CategoryOther][0].ID)
}

func TestInsights_DerivesKeyChanges(t *testing.T) {
	w := do(comparisonRouter(), jsonRequest(t, http.MethodPost, "/api/v1/comparisons/insights", InsightsRequest{
		Changes: []domain.ChangeRecord{
			{ID: 1, Type: domain.ChangeModified, OldContent: "The fee is $100", NewContent: "The fee is $500"},
		},
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var insights domain.Insights
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &insights))
	assert.Equal(t, 1, insights.Summary.Modified)
	assert.Equal(t, 12, insights.RiskAssessment.Score)
	assert.Equal(t, "financial", insights.ImpactAnalysis.PrimaryConcern)
}

func TestSideBySide(t *testing.T) {
	r := comparisonRouter()

	w := do(r, jsonRequest(t, http.MethodPost, "/api/v1/comparisons/side-by-side", SideBySideRequest{
		Original: "The supplier shall deliver goods monthly.",
		Revised:  "The supplier shall deliver goods monthly.\n\nThe buyer pays all shipping costs.",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var resp SideBySideResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Points, 2)
	assert.Equal(t, domain.StatusUnchanged, resp.Points[0].Status)
	assert.Nil(t, resp.Points[1].Original)
	assert.Equal(t, domain.StatusAdded, resp.Points[1].Status)

	w = do(r, jsonRequest(t, http.MethodPost, "/api/v1/comparisons/side-by-side", SideBySideRequest{}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"points":[]}`, w.Body.String())
}
