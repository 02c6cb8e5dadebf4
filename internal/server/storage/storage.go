// Package storage keeps chapter images in an S3-compatible bucket and hands
// out their public URLs.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/wisdombook/internal/logging"
	"github.com/dmitrijs2005/wisdombook/internal/server/config"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// ObjectAPI is the subset of *s3.Client used by Storage.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Storage struct {
	client     ObjectAPI
	bucket     string
	publicBase string
	logger     logging.Logger
	now        func() time.Time
}

// New builds a Storage backed by an S3 client configured from cfg.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Storage, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return NewWithClient(client, cfg.S3Bucket, cfg.PublicBaseURL(), logger), nil
}

func NewWithClient(client ObjectAPI, bucket, publicBase string, logger logging.Logger) *Storage {
	return &Storage{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
		logger:     logger.With("module", "storage"),
		now:        time.Now,
	}
}

// Bucket returns the bucket images are stored in.
func (s *Storage) Bucket() string {
	return s.bucket
}

// ObjectKey names a new object as <unix-millis>_<uuid>.<ext>, taking the
// extension from the uploaded file name.
func ObjectKey(name string, now time.Time) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%d_%s.%s", now.UnixMilli(), uuid.NewString(), ext)
}

// PublicURL returns the public address of key.
func (s *Storage) PublicURL(key string) string {
	return s.publicBase + "/" + s.bucket + "/" + key
}

// KeyFromURL extracts the object key (the last path segment) from a public
// image URL. It returns "" when no key can be found.
func KeyFromURL(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	key := path.Base(p)
	if key == "." || key == "/" {
		return ""
	}
	return key
}

// UploadImage stores data under a fresh key and returns its public URL.
func (s *Storage) UploadImage(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := ObjectKey(name, s.now())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}

	s.logger.Info(ctx, "image uploaded", "key", key, "bytes", len(data))
	return s.PublicURL(key), nil
}

// RemoveImage deletes the object behind imageURL. Failures are logged and
// never returned.
func (s *Storage) RemoveImage(ctx context.Context, imageURL string) {
	key := KeyFromURL(imageURL)
	if key == "" {
		s.logger.Warn(ctx, "image url has no object key", "url", imageURL)
		return
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Warn(ctx, "failed to delete image", "key", key, "error", err)
		return
	}
	s.logger.Debug(ctx, "image deleted", "key", key)
}
