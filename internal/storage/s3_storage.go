package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/ikkim/visitor-registration-backend/config"
	"github.com/ikkim/visitor-registration-backend/pkg/logger"
)

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Storage struct {
	client ObjectPutter
	bucket string
	prefix string
	region string
}

// UploadResult describes a stored object.
type UploadResult struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	URL    string `json:"url"`
}

func NewS3Storage(ctx context.Context, cfg appConfig.S3Config) *S3Storage {
	var awsCfg aws.Config
	var err error

	// If credentials are provided, use them. Otherwise, use default credential chain
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		awsCfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.Region),
		)
		if err != nil {
			logger.Warn("Failed to load default AWS configuration, using region only", map[string]interface{}{
				"region": cfg.Region,
				"error":  err.Error(),
			})
			awsCfg = aws.Config{
				Region: cfg.Region,
			}
		}
	}

	return NewS3StorageWithClient(s3.NewFromConfig(awsCfg), cfg)
}

// NewS3StorageWithClient builds a storage over an existing client.
func NewS3StorageWithClient(client ObjectPutter, cfg appConfig.S3Config) *S3Storage {
	return &S3Storage{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		region: cfg.Region,
	}
}

// ObjectKey places filename under the configured prefix.
func (s *S3Storage) ObjectKey(filename string) string {
	prefix := strings.Trim(s.prefix, "/")
	name := path.Base(filename)
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// Upload stores body under ObjectKey(filename).
func (s *S3Storage) Upload(ctx context.Context, filename string, body io.Reader, contentType string) (*UploadResult, error) {
	if s.bucket == "" {
		return nil, fmt.Errorf("no bucket configured")
	}

	key := s.ObjectKey(filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return &UploadResult{
		Bucket: s.bucket,
		Key:    key,
		URL:    fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key),
	}, nil
}
