package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Archiver implements Archiver by uploading JSON reports to AWS S3.
type s3Archiver struct {
	client *s3.Client
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Archiver creates an S3-backed report archiver.
func NewS3Archiver(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Archiver, error) {
	logger = logger.With().Str("component", "report-s3-archiver").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 report archiver initialised")

	return &s3Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Store uploads the report to S3 under the configured prefix.
func (a *s3Archiver) Store(ctx context.Context, rep SweepReport) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sweep report: %w", err)
	}

	key := a.prefix + objectKey(rep)

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("bucket", a.bucket).
			Str("key", key).
			Msg("failed to upload sweep report to S3")
		return fmt.Errorf("failed to upload sweep report to S3 (bucket=%s, key=%s): %w", a.bucket, key, err)
	}

	a.logger.Info().
		Str("bucket", a.bucket).
		Str("key", key).
		Msg("sweep report archived to S3")

	return nil
}

// fallbackArchiver tries S3 first, then falls back to the local file system.
type fallbackArchiver struct {
	s3Archiver   Archiver
	fileArchiver Archiver
	s3Enabled    bool
	logger       zerolog.Logger
}

// NewFallbackArchiver creates an archiver that tries S3 first, then falls
// back to the local file system. If s3Archiver is nil, only the file
// archiver is used.
func NewFallbackArchiver(s3Archiver, fileArchiver Archiver, s3Enabled bool, logger zerolog.Logger) Archiver {
	return &fallbackArchiver{
		s3Archiver:   s3Archiver,
		fileArchiver: fileArchiver,
		s3Enabled:    s3Enabled,
		logger:       logger.With().Str("component", "report-fallback-archiver").Logger(),
	}
}

// Store attempts the S3 upload first; on failure the report is written locally.
func (a *fallbackArchiver) Store(ctx context.Context, rep SweepReport) error {
	if a.s3Enabled && a.s3Archiver != nil {
		err := a.s3Archiver.Store(ctx, rep)
		if err == nil {
			return nil
		}

		a.logger.Warn().
			Err(err).
			Msg("failed to archive report to S3, falling back to local file system")
	} else {
		a.logger.Debug().
			Bool("s3_enabled", a.s3Enabled).
			Bool("has_s3_archiver", a.s3Archiver != nil).
			Msg("S3 disabled or not configured, using local file system")
	}

	return a.fileArchiver.Store(ctx, rep)
}
