package minio

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/ClauseLens/pkg/errors"
)

type RepositoryTestSuite struct {
	suite.Suite
	api     *MockMinIOAPI
	reports ObjectRepository
	uploads ObjectRepository
}

func (s *RepositoryTestSuite) SetupTest() {
	s.api = new(MockMinIOAPI)
	client := NewMinIOClientWithAPI(s.api, &MinIOConfig{}, logging.NewNopLogger())
	s.reports = NewReportRepository(client, logging.NewNopLogger())
	s.uploads = NewUploadRepository(client, logging.NewNopLogger())
}

func (s *RepositoryTestSuite) TestBuckets() {
	s.Equal("clauselens-reports", s.reports.Bucket())
	s.Equal("clauselens-uploads", s.uploads.Bucket())
}

func (s *RepositoryTestSuite) TestSave_Success() {
	data := []byte("%PDF-1.4 report")
	s.api.On("PutObject", mock.Anything, "clauselens-reports", "reports/run-1/r.pdf", mock.Anything, int64(len(data)),
		mock.MatchedBy(func(o minio.PutObjectOptions) bool { return o.ContentType == "application/pdf" })).
		Return(minio.UploadInfo{Size: int64(len(data))}, nil)

	err := s.reports.Save(context.Background(), "reports/run-1/r.pdf", data, "application/pdf")
	s.NoError(err)
	s.api.AssertExpectations(s.T())
}

func (s *RepositoryTestSuite) TestSave_DetectsContentType() {
	s.api.On("PutObject", mock.Anything, "clauselens-uploads", "doc.txt", mock.Anything, int64(5),
		mock.MatchedBy(func(o minio.PutObjectOptions) bool { return o.ContentType == "text/plain; charset=utf-8" })).
		Return(minio.UploadInfo{Size: 5}, nil)

	s.NoError(s.uploads.Save(context.Background(), "doc.txt", []byte("hello"), ""))
}

func (s *RepositoryTestSuite) TestSave_EmptyKey() {
	err := s.reports.Save(context.Background(), "", []byte("x"), "")
	s.True(apperrors.IsCode(err, apperrors.ErrCodeValidation))
	s.api.AssertNotCalled(s.T(), "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *RepositoryTestSuite) TestSave_Failure() {
	s.api.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("disk full"))

	err := s.reports.Save(context.Background(), "k", []byte("x"), "application/pdf")
	s.True(apperrors.IsCode(err, apperrors.ErrCodeStorageError))
}

func (s *RepositoryTestSuite) TestGet_NotFound() {
	s.api.On("GetObject", mock.Anything, "clauselens-uploads", "missing", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

	_, err := s.uploads.Get(context.Background(), "missing")
	s.True(apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func (s *RepositoryTestSuite) TestExists() {
	s.api.On("StatObject", mock.Anything, "clauselens-uploads", "a", mock.Anything).Return(minio.ObjectInfo{Key: "a"}, nil)
	s.api.On("StatObject", mock.Anything, "clauselens-uploads", "b", mock.Anything).Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})
	s.api.On("StatObject", mock.Anything, "clauselens-uploads", "c", mock.Anything).Return(minio.ObjectInfo{}, errors.New("timeout"))

	ok, err := s.uploads.Exists(context.Background(), "a")
	s.NoError(err)
	s.True(ok)

	ok, err = s.uploads.Exists(context.Background(), "b")
	s.NoError(err)
	s.False(ok)

	_, err = s.uploads.Exists(context.Background(), "c")
	s.True(apperrors.IsCode(err, apperrors.ErrCodeStorageError))
}

func (s *RepositoryTestSuite) TestDelete() {
	s.api.On("RemoveObject", mock.Anything, "clauselens-uploads", "a", mock.Anything).Return(nil)
	s.NoError(s.uploads.Delete(context.Background(), "a"))
}

func (s *RepositoryTestSuite) TestPresignedURL() {
	u, _ := url.Parse("http://minio/clauselens-reports/k?X-Amz-Signature=abc")
	s.api.On("PresignedGetObject", mock.Anything, "clauselens-reports", "k", time.Hour, url.Values(nil)).Return(u, nil)

	got, err := s.reports.PresignedURL(context.Background(), "k", time.Hour)
	s.NoError(err)
	s.Contains(got, "X-Amz-Signature")
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
