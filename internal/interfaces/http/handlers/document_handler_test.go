package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func documentRouter() *gin.Engine {
	h := NewDocumentHandler(newComparisonService(), 1<<10)
	return newEngine(func(r *gin.Engine) {
		r.POST("/api/v1/documents/extract", h.Extract)
	})
}

func TestDocumentHandler_Extract(t *testing.T) {
	w := do(documentRouter(), multipartRequest(t, "/api/v1/documents/extract",
		formFile{"file", "terms.txt", []byte("Payment is due in 30 days.")}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "terms.txt", resp.Name)
	assert.Contains(t, resp.FullText, "Payment is due in 30 days.")
	assert.NotEmpty(t, resp.Pages)
}

func TestDocumentHandler_Errors(t *testing.T) {
	r := documentRouter()

	t.Run("json body", func(t *testing.T) {
		w := do(r, jsonRequest(t, http.MethodPost, "/api/v1/documents/extract", TextDocumentRequest{Text: "x"}))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("wrong field", func(t *testing.T) {
		w := do(r, multipartRequest(t, "/api/v1/documents/extract",
			formFile{"upload", "terms.txt", []byte("text")}))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decodeError(t, w).Message, `"file"`)
	})

	t.Run("too large", func(t *testing.T) {
		big := make([]byte, 4<<10)
		for i := range big {
			big[i] = 'a'
		}
		w := do(r, multipartRequest(t, "/api/v1/documents/extract",
			formFile{"file", "big.txt", big}))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "CMP_003", decodeError(t, w).Code)
	})
}
