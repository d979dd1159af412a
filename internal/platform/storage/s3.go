// Package storage provides blob storage for design reference uploads.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/stitchdesk/tailor_shop_app/internal/platform/config"
)

// Uploader stores a blob under the given key and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}

// S3Uploader stores blobs in an S3 bucket using the default credential chain
// (instance role in AWS, env vars or shared config elsewhere).
type S3Uploader struct {
	client       *s3.Client
	bucket       string
	region       string
	assetBaseURL string
}

// NewS3Uploader builds the uploader from application config.
func NewS3Uploader(ctx context.Context, cfg *config.Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Uploader{
		client:       s3.NewFromConfig(awsCfg),
		bucket:       cfg.S3Bucket,
		region:       cfg.S3Region,
		assetBaseURL: strings.TrimSuffix(cfg.AssetBaseURL, "/"),
	}, nil
}

// Upload writes the blob and returns the URL clients can fetch it from. When
// an asset base URL (e.g. a CloudFront distribution) is configured, URLs are
// built against it; otherwise the regional S3 URL is returned.
func (u *S3Uploader) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: &u.bucket,
		Key:    &key,
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	if u.assetBaseURL != "" {
		return fmt.Sprintf("%s/%s", u.assetBaseURL, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
}

var _ Uploader = (*S3Uploader)(nil)
