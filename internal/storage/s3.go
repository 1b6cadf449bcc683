// Package storage uploads exported take-off files to S3-compatible storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/config"
)

// ErrDisabled is returned by NewS3Publisher when no bucket is configured.
var ErrDisabled = errors.New("s3 upload not configured")

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads local files under a key prefix.
type S3Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
	logger *zap.Logger
}

// NewS3Publisher builds an S3 client from cfg. Static credentials are used
// when both keys are set, otherwise the default AWS credential chain applies.
func NewS3Publisher(ctx context.Context, cfg config.S3Config, logger *zap.Logger) (*S3Publisher, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(normalizeEndpoint(cfg.Endpoint))
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewPublisher(client, cfg.Bucket, cfg.Prefix, logger), nil
}

// NewPublisher wraps an existing client.
func NewPublisher(client ObjectPutter, bucket, prefix string, logger *zap.Logger) *S3Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Publisher{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

// Key returns the object key for a local file: prefix/basename.
func (p *S3Publisher) Key(localPath string) string {
	return path.Join(p.prefix, filepath.Base(localPath))
}

// Publish uploads one file and returns its object key.
func (p *S3Publisher) Publish(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	key := p.Key(localPath)
	input := &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(filepath.Ext(localPath)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := p.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	p.logger.Info("uploaded export",
		zap.String("bucket", p.bucket),
		zap.String("key", key))
	return key, nil
}

// PublishAll uploads every file, continuing past failures. It returns the
// keys of the uploaded files and the joined upload errors.
func (p *S3Publisher) PublishAll(ctx context.Context, paths []string) ([]string, error) {
	keys := make([]string, 0, len(paths))
	var errs []error
	for _, lp := range paths {
		key, err := p.Publish(ctx, lp)
		if err != nil {
			p.logger.Warn("upload failed", zap.String("path", lp), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		keys = append(keys, key)
	}
	return keys, errors.Join(errs...)
}

func normalizeEndpoint(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return "https://" + endpoint
}
