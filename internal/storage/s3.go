// AngelaMos | 2026
// s3.go

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/catalog-admin/internal/config"
	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
)

const pingTimeout = 5 * time.Second

type S3Store struct {
	client  *s3.Client
	bucket  string
	prefix  string
	baseURL string
}

func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.KeyPrefix, "/"),
		baseURL: publicBaseURL(cfg),
	}, nil
}

// publicBaseURL is the prefix every object URL starts with, without a
// trailing slash.
func publicBaseURL(cfg config.StorageConfig) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

func (s *S3Store) Upload(
	ctx context.Context,
	data []byte,
	contentType string,
) (*UploadResult, error) {
	ctx, span := core.StartSpan(ctx, "storage.Upload")
	defer span.End()

	filename := uuid.New().String() + extensionFor(contentType)
	key := filename
	if s.prefix != "" {
		key = path.Join(s.prefix, filename)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("upload object %s: %w: %w", key, core.ErrStorageFailed, err)
	}

	return &UploadResult{
		URL:      s.baseURL + "/" + key,
		Key:      key,
		Filename: filename,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w: %w", key, core.ErrStorageFailed, err)
	}

	return nil
}

// KeyFromURL returns the object key for a URL this store produced, or
// the URL path without the bucket segment for anything else.
func (s *S3Store) KeyFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	if rest, ok := strings.CutPrefix(rawURL, s.baseURL+"/"); ok {
		return rest
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	key := strings.TrimPrefix(u.Path, "/")
	key = strings.TrimPrefix(key, s.bucket+"/")
	return key
}

// Ping checks that the bucket exists and is reachable with the
// configured credentials.
func (s *S3Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	}); err != nil {
		return fmt.Errorf("s3 head bucket: %w", err)
	}

	return nil
}

var _ BlobStore = (*S3Store)(nil)
