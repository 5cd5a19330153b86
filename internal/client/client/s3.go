package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/voicevault/internal/common"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the settings needed to reach the S3-compatible bucket
// (MinIO in the default deployment).
type S3Config struct {
	Region       string
	BaseEndpoint string
	Bucket       string
	RootUser     string // MINIO_ROOT_USER
	RootPassword string // MINIO_ROOT_PASSWORD
}

// S3Storage implements ObjectStorage over an S3-compatible service.
type S3Storage struct {
	cfg    S3Config
	client *s3.Client
}

// NewS3Storage builds the S3 client once; Put calls share it.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.RootUser,
			cfg.RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Storage{cfg: cfg, client: client}, nil
}

// Put uploads the payload under the given key and returns the resolvable
// object URL. The caller bounds the call with a deadline; an exceeded
// deadline is reported as common.ErrUploadTimeout.
func (s *S3Storage) Put(ctx context.Context, key string, payload []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", common.ErrUploadTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}

	return s.objectURL(key), nil
}

func (s *S3Storage) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.BaseEndpoint, "/"), s.cfg.Bucket, key)
}
