package repository

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3PutObjectAPI is the subset of the S3 client used by the mirror.
type s3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Mirror implements BackupMirror by uploading backups to AWS S3.
type s3Mirror struct {
	client s3PutObjectAPI
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Mirror creates a backup mirror writing to bucket under prefix.
func NewS3Mirror(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (BackupMirror, error) {
	logger = logger.With().Str("component", "s3-backup-mirror").Logger()

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 backup mirror initialised")

	return newS3Mirror(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

func newS3Mirror(client s3PutObjectAPI, bucket, prefix string, logger zerolog.Logger) *s3Mirror {
	return &s3Mirror{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Upload stores data at <prefix><name> in the bucket, replacing any previous object.
func (m *s3Mirror) Upload(ctx context.Context, name string, data []byte) error {
	key := m.prefix + name

	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		m.logger.Error().
			Err(err).
			Str("bucket", m.bucket).
			Str("key", key).
			Msg("failed to put backup object to S3")
		return fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", m.bucket, key, err)
	}

	m.logger.Info().
		Str("bucket", m.bucket).
		Str("key", key).
		Int("bytes", len(data)).
		Msg("backup mirrored to S3")

	return nil
}
