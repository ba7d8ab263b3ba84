// Package receipt archives donation receipts to S3.
package receipt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"path"

	"github.com/amirasaad/donation/pkg/config"
	"github.com/amirasaad/donation/pkg/receipt"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the subset of the S3 client the archiver needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver writes one JSON object per receipt.
type S3Archiver struct {
	client ObjectPutter
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3Archiver loads the default AWS credential chain for cfg.Region.
func NewS3Archiver(ctx context.Context, cfg *config.Receipts, logger *slog.Logger) (*S3Archiver, error) {
	if cfg == nil || cfg.Bucket == "" {
		return nil, fmt.Errorf("receipt bucket is not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3ArchiverWithClient(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix, logger), nil
}

// NewS3ArchiverWithClient uses an existing client.
func NewS3ArchiverWithClient(client ObjectPutter, bucket, prefix string, logger *slog.Logger) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger.With("component", "receipt.s3"),
	}
}

// Key returns the object key of r: <prefix>/<yyyy>/<mm>/<transactionId>.json.
func (a *S3Archiver) Key(r *receipt.Receipt) string {
	at := r.SettledAt.UTC()
	return path.Join(
		a.prefix,
		fmt.Sprintf("%04d", at.Year()),
		fmt.Sprintf("%02d", int(at.Month())),
		url.PathEscape(r.TransactionID)+".json",
	)
}

// Archive uploads r. Re-archiving a receipt overwrites the same object.
func (a *S3Archiver) Archive(ctx context.Context, r *receipt.Receipt) (string, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal receipt: %w", err)
	}
	key := a.Key(r)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt: %w", err)
	}
	a.logger.Debug("receipt archived", "bucket", a.bucket, "key", key)
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
