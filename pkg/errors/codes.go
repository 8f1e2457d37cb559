package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a stable, machine-readable identifier for a failure category.
// Codes are grouped by module prefix so that clients can route on the prefix
// alone (COMMON, CMP, EXT, RPT).
type ErrorCode string

// String returns the raw code value.
func (c ErrorCode) String() string {
	return string(c)
}

// Module returns the prefix portion of the code, e.g. "EXT" for "EXT_002".
func (c ErrorCode) Module() string {
	s := string(c)
	if i := strings.IndexByte(s, '_'); i > 0 {
		return s[:i]
	}
	return s
}

// ─────────────────────────────────────────────────────────────────────────────
// Common codes
// ─────────────────────────────────────────────────────────────────────────────

const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeStorageError       ErrorCode = "COMMON_017"
	ErrCodeMessagingError     ErrorCode = "COMMON_018"
)

// Short aliases used throughout the codebase.
const (
	CodeOK           ErrorCode = "OK"
	CodeUnknown      ErrorCode = ""
	CodeInternal               = ErrCodeInternal
	CodeInvalidParam           = ErrCodeBadRequest
	CodeNotFound               = ErrCodeNotFound
	CodeConflict               = ErrCodeConflict
	CodeCacheError             = ErrCodeCacheError
	CodeStorageError           = ErrCodeStorageError
)

// ─────────────────────────────────────────────────────────────────────────────
// Comparison engine
// ─────────────────────────────────────────────────────────────────────────────

const (
	ErrCodeComparisonFailed   ErrorCode = "CMP_001"
	ErrCodeComparisonInput    ErrorCode = "CMP_002"
	ErrCodeComparisonTooLarge ErrorCode = "CMP_003"
)

// ─────────────────────────────────────────────────────────────────────────────
// Document extraction
// ─────────────────────────────────────────────────────────────────────────────

const (
	ErrCodeExtractionFailed     ErrorCode = "EXT_001"
	ErrCodeExtractorUnavailable ErrorCode = "EXT_002"
	ErrCodeUnsupportedDocument  ErrorCode = "EXT_003"
	ErrCodeEmptyDocument        ErrorCode = "EXT_004"
)

// ─────────────────────────────────────────────────────────────────────────────
// Reporting
// ─────────────────────────────────────────────────────────────────────────────

const (
	ErrCodeReportRenderFailed ErrorCode = "RPT_001"
	ErrCodeReportSaveFailed   ErrorCode = "RPT_002"
	ErrCodeReportNotFound     ErrorCode = "RPT_003"
)

// ErrorCodeHTTPStatus maps each code to the HTTP status returned by the API.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,

	ErrCodeComparisonFailed:   http.StatusInternalServerError,
	ErrCodeComparisonInput:    http.StatusBadRequest,
	ErrCodeComparisonTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeExtractionFailed:     http.StatusUnprocessableEntity,
	ErrCodeExtractorUnavailable: http.StatusServiceUnavailable,
	ErrCodeUnsupportedDocument:  http.StatusUnsupportedMediaType,
	ErrCodeEmptyDocument:        http.StatusUnprocessableEntity,

	ErrCodeReportRenderFailed: http.StatusInternalServerError,
	ErrCodeReportSaveFailed:   http.StatusInternalServerError,
	ErrCodeReportNotFound:     http.StatusNotFound,
}

// ErrorCodeMessage maps codes to default, user-facing messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeStorageError:       "object storage error",
	ErrCodeMessagingError:     "messaging error",

	ErrCodeComparisonFailed:   "document comparison failed",
	ErrCodeComparisonInput:    "invalid comparison input",
	ErrCodeComparisonTooLarge: "document too large to compare",

	ErrCodeExtractionFailed:     "failed to extract text from document",
	ErrCodeExtractorUnavailable: "document extractor is not available",
	ErrCodeUnsupportedDocument:  "unsupported document type",
	ErrCodeEmptyDocument:        "document contains no extractable text",

	ErrCodeReportRenderFailed: "failed to render comparison report",
	ErrCodeReportSaveFailed:   "failed to save comparison report",
	ErrCodeReportNotFound:     "report not found",
}

// HTTPStatusForCode returns the HTTP status for code, falling back to 500.
func HTTPStatusForCode(code ErrorCode) int {
	if s, ok := ErrorCodeHTTPStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// DefaultMessage returns the registered message for code, or "unknown error".
func DefaultMessage(code ErrorCode) string {
	if m, ok := ErrorCodeMessage[code]; ok {
		return m
	}
	return "unknown error"
}
