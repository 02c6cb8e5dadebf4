package storage

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/wisdombook/internal/logging"
	"github.com/dmitrijs2005/wisdombook/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	put       *s3.PutObjectInput
	body      []byte
	deleted   []string
	putErr    error
	deleteErr error
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.put = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

var keyPattern = regexp.MustCompile(`^1700000000123_[0-9a-f-]{36}\.png$`)

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	assert.Regexp(t, keyPattern, ObjectKey("Photo.PNG", now))
	assert.Regexp(t, `\.bin$`, ObjectKey("noext", now))
	assert.NotEqual(t, ObjectKey("a.png", now), ObjectKey("a.png", now))
}

func TestKeyFromURL(t *testing.T) {
	assert.Equal(t, "k.png", KeyFromURL("http://s3:9000/chapter-images/k.png"))
	assert.Equal(t, "k.png", KeyFromURL("https://cdn/chapter-images/k.png?v=2"))
	assert.Equal(t, "k.png", KeyFromURL("k.png"))
	assert.Equal(t, "", KeyFromURL(""))
	assert.Equal(t, "", KeyFromURL("http://s3:9000/"))
}

func TestUploadImage_Success(t *testing.T) {
	f := &fakeObjects{}
	s := NewWithClient(f, "chapter-images", "http://s3:9000/", logging.NewNop())
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }

	url, err := s.UploadImage(context.Background(), "cover.png", "image/png", []byte("data"))
	require.NoError(t, err)

	require.NotNil(t, f.put)
	assert.Equal(t, "chapter-images", aws.ToString(f.put.Bucket))
	assert.Equal(t, "image/png", aws.ToString(f.put.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(f.put.ContentLength))
	assert.Equal(t, []byte("data"), f.body)
	assert.Regexp(t, keyPattern, aws.ToString(f.put.Key))
	assert.Equal(t, "http://s3:9000/chapter-images/"+aws.ToString(f.put.Key), url)
}

func TestUploadImage_ErrorWrapped(t *testing.T) {
	boom := errors.New("boom")
	s := NewWithClient(&fakeObjects{putErr: boom}, "b", "http://s3", logging.NewNop())

	url, err := s.UploadImage(context.Background(), "a.png", "image/png", []byte("x"))
	require.ErrorIs(t, err, boom)
	assert.Empty(t, url)
	assert.Contains(t, err.Error(), "upload a.png")
}

func TestRemoveImage(t *testing.T) {
	f := &fakeObjects{}
	s := NewWithClient(f, "chapter-images", "http://s3", logging.NewNop())

	s.RemoveImage(context.Background(), "http://s3/chapter-images/one.png")
	s.RemoveImage(context.Background(), "")

	assert.Equal(t, []string{"one.png"}, f.deleted)
}

func TestRemoveImage_FailureSwallowed(t *testing.T) {
	f := &fakeObjects{deleteErr: errors.New("denied")}
	s := NewWithClient(f, "chapter-images", "http://s3", logging.NewNop())

	require.NotPanics(t, func() {
		s.RemoveImage(context.Background(), "http://s3/chapter-images/two.png")
	})
	assert.Equal(t, []string{"two.png"}, f.deleted)
}

func TestNew_UsesSeams(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "eu-central-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	cfg := &config.Config{
		S3Region:       "eu-central-1",
		S3RootUser:     "u",
		S3RootPassword: "p",
		S3Bucket:       "chapter-images",
		S3BaseEndpoint: "http://minio:9000/",
	}
	s, err := New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)

	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://minio:9000/", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "chapter-images", s.Bucket())
	assert.Equal(t, "http://minio:9000/chapter-images/k", s.PublicURL("k"))
}

func TestNew_ConfigError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	boom := errors.New("no config")
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, boom
	}

	_, err := New(context.Background(), &config.Config{}, logging.NewNop())
	require.ErrorIs(t, err, boom)
}
