package reporting

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ClauseLens/internal/testutil"
	"github.com/turtacn/ClauseLens/pkg/errors"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Save(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *mockStorage) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

type recordingMetrics struct {
	pages, size int
	calls       int
}

func (m *recordingMetrics) RecordReport(pages, size int, _ time.Duration) {
	m.pages, m.size = pages, size
	m.calls++
}

func newTestService(storage ObjectStorage, metrics Metrics) (Service, *testutil.MockLogger) {
	logger := testutil.NewMockLogger()
	renderer := NewRenderer(func() Surface { return newFakeSurface() }, RenderOptions{}, logger)
	return NewService(renderer, storage, metrics, ServiceConfig{}, logger), logger
}

func TestService_GenerateComparisonReport(t *testing.T) {
	metrics := &recordingMetrics{}
	svc, logger := newTestService(nil, metrics)

	data := sampleReportData(3)
	report, err := svc.GenerateComparisonReport(data, "", "Revised MSA")
	require.NoError(t, err)

	assert.Equal(t, "comparison-report-2024-03-05.pdf", report.FileName)
	assert.Equal(t, 1, metrics.calls)
	assert.Equal(t, report.Pages, metrics.pages)
	assert.Equal(t, report.Size(), metrics.size)
	assert.True(t, logger.HasMessage("info", "report generated"))
}

func TestService_Archive(t *testing.T) {
	storage := &mockStorage{}
	svc, _ := newTestService(storage, nil)
	report, err := svc.GenerateComparisonReport(sampleReportData(3), "", "")
	require.NoError(t, err)

	key := "reports/run-1/comparison-report-2024-03-05.pdf"
	storage.On("Save", mock.Anything, key, report.Bytes(), ContentTypePDF).Return(nil)
	storage.On("PresignedURL", mock.Anything, key, 24*time.Hour).Return("https://minio.local/"+key, nil)

	stored, err := svc.Archive(context.Background(), "run-1", report)
	require.NoError(t, err)
	assert.Equal(t, key, stored.Key)
	assert.Equal(t, "https://minio.local/"+key, stored.DownloadURL)
	assert.Equal(t, report.Pages, stored.Pages)
	storage.AssertExpectations(t)
}

func TestService_ArchivePresignFailureKeepsObject(t *testing.T) {
	storage := &mockStorage{}
	svc, logger := newTestService(storage, nil)
	report := &Report{FileName: "r.pdf", data: []byte("%PDF")}

	storage.On("Save", mock.Anything, mock.Anything, mock.Anything, ContentTypePDF).Return(nil)
	storage.On("PresignedURL", mock.Anything, mock.Anything, mock.Anything).Return("", fmt.Errorf("no creds"))

	stored, err := svc.Archive(context.Background(), "", report)
	require.NoError(t, err)
	assert.Empty(t, stored.DownloadURL)
	assert.Regexp(t, `^reports/[0-9a-f-]{36}/r\.pdf$`, stored.Key)
	assert.True(t, logger.HasMessage("warn", "presign failed"))
}

func TestService_ArchiveErrors(t *testing.T) {
	svc, _ := newTestService(nil, nil)
	_, err := svc.Archive(context.Background(), "run", &Report{data: []byte("x")})
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))

	storage := &mockStorage{}
	svc, _ = newTestService(storage, nil)
	_, err = svc.Archive(context.Background(), "run", nil)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	storage.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(fmt.Errorf("bucket missing"))
	_, err = svc.Archive(context.Background(), "run", &Report{FileName: "r.pdf", data: []byte("x")})
	assert.True(t, errors.IsCode(err, errors.ErrCodeReportSaveFailed))
}
