package errors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/ClauseLens/pkg/errors"
)

func TestErrorCodeTables_AreConsistent(t *testing.T) {
	for code := range errors.ErrorCodeHTTPStatus {
		_, ok := errors.ErrorCodeMessage[code]
		assert.True(t, ok, "code %s has a status but no message", code)
	}
	for code := range errors.ErrorCodeMessage {
		_, ok := errors.ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "code %s has a message but no status", code)
	}
}

func TestErrorCode_Module(t *testing.T) {
	assert.Equal(t, "EXT", errors.ErrCodeExtractionFailed.Module())
	assert.Equal(t, "COMMON", errors.ErrCodeInternal.Module())
	assert.Equal(t, "OK", errors.CodeOK.Module())
}

func TestDefaultMessage(t *testing.T) {
	assert.Equal(t, "report not found", errors.DefaultMessage(errors.ErrCodeReportNotFound))
	assert.Equal(t, "unknown error", errors.DefaultMessage(errors.ErrorCode("X_9")))
}
