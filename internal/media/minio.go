package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/incvoting/voting-api/internal/config"
	"github.com/incvoting/voting-api/internal/logger"
)

// MinioStore keeps objects in a MinIO/S3 bucket, prefixed per purpose so
// candidate images and QR codes share one bucket without colliding.
type MinioStore struct {
	client *minio.Client
	bucket string
	prefix string
	log    *charmlog.Logger
}

// NewMinioStore connects to the configured MinIO endpoint and ensures the
// bucket exists.
func NewMinioStore(cfg *config.Config, urlPrefix string) (*MinioStore, error) {
	client, err := minio.New(cfg.Media.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Media.MinioAccessKey, cfg.Media.MinioSecretKey, ""),
		Secure: cfg.Media.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	store := &MinioStore{
		client: client,
		bucket: cfg.Media.MinioBucket,
		prefix: strings.Trim(urlPrefix, "/"),
		log:    logger.Media("minio"),
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, store.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", store.bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, store.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", store.bucket, err)
		}
		store.log.Info("bucket created", "bucket", store.bucket)
	}

	return store, nil
}

func (s *MinioStore) objectName(name string) string {
	return s.prefix + "/" + strings.TrimPrefix(name, "/")
}

func (s *MinioStore) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	object := s.objectName(name)

	_, err := s.client.PutObject(ctx, s.bucket, object, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.log.Error("failed to upload object", "error", err, "object", object)
		return "", fmt.Errorf("failed to upload object %s: %w", object, err)
	}

	s.log.Debug("object uploaded", "object", object, "size", size, "content_type", contentType)
	return s.URL(name), nil
}

func (s *MinioStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, s.objectName(name), minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

func (s *MinioStore) URL(name string) string {
	scheme := "http"
	if s.client.EndpointURL().Scheme == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, s.objectName(name))
}
