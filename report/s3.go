// Package report copies a finished export to S3.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the subset of the S3 client used here.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Uploader struct {
	Client PutObjectAPI
	Bucket string
}

// NewS3Uploader loads the default AWS credential chain. An empty region
// leaves the choice to the environment.
func NewS3Uploader(ctx context.Context, bucket, region string) (*Uploader, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return &Uploader{Client: s3.NewFromConfig(cfg), Bucket: bucket}, nil
}

// DefaultKey names a report by its UTC creation time.
func DefaultKey(prefix string, now time.Time) string {
	return fmt.Sprintf("%s/%s.csv", prefix, now.UTC().Format("20060102T150405Z"))
}

func (u *Uploader) Upload(ctx context.Context, key string, body io.Reader) error {
	_, err := u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", u.Bucket, key, err)
	}
	return nil
}
