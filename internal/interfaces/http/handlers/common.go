// Package handlers exposes the comparison engine over a JSON/multipart API.
package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ClauseLens/internal/application/comparison"
	"github.com/turtacn/ClauseLens/internal/interfaces/http/middleware"
	"github.com/turtacn/ClauseLens/pkg/errors"
)

// DefaultMaxUploadBytes bounds a single multipart request.
const DefaultMaxUploadBytes = 32 << 20

// ErrorBody is the error payload of every failed request.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// TextDocumentRequest is a document submitted as plain text.
type TextDocumentRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// writeAppError maps err onto the status registered for its code. Errors
// without a code are masked as internal errors.
func writeAppError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorBody{
			Code:      errors.ErrCodeInternal.String(),
			Message:   "internal server error",
			RequestID: middleware.GetRequestID(c),
		}})
		return
	}
	_ = c.Error(err)
	status := errors.HTTPStatusForCode(appErr.Code)
	body := ErrorBody{
		Code:      appErr.Code.String(),
		Message:   appErr.Message,
		RequestID: middleware.GetRequestID(c),
	}
	if status < http.StatusInternalServerError {
		body.Detail = appErr.Detail
	}
	c.JSON(status, ErrorResponse{Error: body})
}

func writeValidationError(c *gin.Context, msg string) {
	writeAppError(c, errors.New(errors.ErrCodeValidation, msg))
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// limitBody caps the request body. Reading past the limit fails the parse.
func limitBody(c *gin.Context, limit int64) {
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
}

// readFormFile reads the named multipart file fully.
func readFormFile(c *gin.Context, field string) (comparison.Document, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return comparison.Document{}, errors.New(errors.ErrCodeComparisonTooLarge, "upload exceeds size limit")
		}
		return comparison.Document{}, errors.Newf(errors.ErrCodeValidation, "multipart field %q is required", field)
	}
	data, err := readMultipartFile(fh)
	if err != nil {
		return comparison.Document{}, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read upload "+field)
	}
	return comparison.Document{Name: fh.Filename, Data: data}, nil
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// readDocumentPair reads the "original" and "revised" multipart files.
func readDocumentPair(c *gin.Context) (comparison.Document, comparison.Document, error) {
	original, err := readFormFile(c, "original")
	if err != nil {
		return comparison.Document{}, comparison.Document{}, err
	}
	revised, err := readFormFile(c, "revised")
	if err != nil {
		return comparison.Document{}, comparison.Document{}, err
	}
	return original, revised, nil
}

func toTextDocument(r TextDocumentRequest, fallback string) comparison.TextDocument {
	name := r.Name
	if name == "" {
		name = fallback
	}
	return comparison.TextDocument{Name: name, Text: r.Text}
}
