package minio

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseLens/pkg/errors"
)

var (
	ErrObjectNotFound = errors.New(errors.ErrCodeNotFound, "object not found")
	ErrInvalidRequest = errors.New(errors.ErrCodeValidation, "invalid request")
)

// ObjectRepository reads and writes objects in one bucket.
type ObjectRepository interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Bucket() string
}

type minioRepository struct {
	client *MinIOClient
	bucket string
	logger logging.Logger
}

// NewReportRepository stores rendered reports.
func NewReportRepository(client *MinIOClient, log logging.Logger) ObjectRepository {
	return &minioRepository{client: client, bucket: client.config.Buckets.Reports, logger: log}
}

// NewUploadRepository stores uploaded source documents.
func NewUploadRepository(client *MinIOClient, log logging.Logger) ObjectRepository {
	return &minioRepository{client: client, bucket: client.config.Buckets.Uploads, logger: log}
}

func (r *minioRepository) Bucket() string { return r.bucket }

func (r *minioRepository) Save(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return ErrInvalidRequest.WithDetail("empty object key")
	}
	if contentType == "" {
		contentType = http.DetectContentType(data[:min(512, len(data))])
	}
	info, err := r.client.GetClient().PutObject(ctx, r.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "upload failed")
	}
	r.logger.Debug("object stored",
		logging.String("bucket", r.bucket),
		logging.String("key", key),
		logging.Int64("size", info.Size),
	)
	return nil
}

func (r *minioRepository) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := r.client.GetClient().GetObject(ctx, r.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateError(err, "download failed")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, translateError(err, "download failed")
	}
	return data, nil
}

func (r *minioRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, err := r.client.GetClient().StatObject(ctx, r.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, errors.Wrap(err, errors.ErrCodeStorageError, "stat failed")
}

func (r *minioRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.GetClient().RemoveObject(ctx, r.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return translateError(err, "delete failed")
	}
	return nil
}

func (r *minioRepository) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return r.client.GeneratePresignedGetURL(ctx, r.bucket, key, expiry)
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}

func translateError(err error, msg string) error {
	if isNotFound(err) {
		return ErrObjectNotFound.WithCause(err)
	}
	return errors.Wrap(err, errors.ErrCodeStorageError, msg)
}
