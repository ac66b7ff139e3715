package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"gotwitter/internal/common"
	"gotwitter/internal/config"
)

const filenameMeta = "filename"

// S3Store keeps blobs in an S3 compatible bucket. Refs are object keys.
type S3Store struct {
	client *minio.Client
	bucket string
}

func NewS3Store(ctx context.Context, cfg *config.Config) (*S3Store, error) {
	client, err := minio.New(cfg.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		Secure: cfg.S3.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.S3.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.S3.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.S3.Bucket, err)
		}
		log.WithField("bucket", cfg.S3.Bucket).Info("created media bucket")
	}

	return &S3Store{client: client, bucket: cfg.S3.Bucket}, nil
}

func (s *S3Store) Backend() string {
	return "s3"
}

func (s *S3Store) Put(ctx context.Context, filename, mimeType string, size int64, content io.Reader) (string, error) {
	ref := uuid.NewString()
	_, err := s.client.PutObject(ctx, s.bucket, ref, content, size, minio.PutObjectOptions{
		ContentType:  mimeType,
		UserMetadata: map[string]string{filenameMeta: filename},
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return ref, nil
}

func (s *S3Store) Get(ctx context.Context, ref string) (io.ReadCloser, *common.BlobInfo, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, s.translate(err)
	}

	// GetObject is lazy; Stat is the first round trip.
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, nil, s.translate(err)
	}

	filename := metaValue(stat.UserMetadata, filenameMeta)
	contentType := stat.ContentType
	if contentType == "" {
		contentType = common.ContentTypeFor(filename)
	}
	return obj, &common.BlobInfo{
		Ref:         ref,
		Filename:    filename,
		ContentType: contentType,
		Size:        stat.Size,
		FileType:    common.DetectFileType(contentType),
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, ref string) error {
	if _, err := s.client.StatObject(ctx, s.bucket, ref, minio.StatObjectOptions{}); err != nil {
		return s.translate(err)
	}
	return s.client.RemoveObject(ctx, s.bucket, ref, minio.RemoveObjectOptions{})
}

func (s *S3Store) translate(err error) error {
	if isNoSuchKey(err) {
		return common.NotFound("media not found")
	}
	return fmt.Errorf("s3 %s: %w", s.bucket, err)
}

func isNoSuchKey(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}

// metaValue looks a key up in user metadata, which S3 returns canonicalised.
func metaValue(meta map[string]string, key string) string {
	for k, v := range meta {
		if strings.EqualFold(k, key) || strings.EqualFold(k, "X-Amz-Meta-"+key) {
			return v
		}
	}
	return ""
}
