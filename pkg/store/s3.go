package store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store implements Store against an S3 bucket.
type S3Store struct {
	Client *s3.Client
	Bucket string
	Region string
}

// NewS3Store creates an S3Store using the ambient AWS configuration
// (environment, shared config, instance role).
func NewS3Store(ctx context.Context, bucket string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Store{
		Client: s3.NewFromConfig(cfg),
		Bucket: bucket,
		Region: cfg.Region,
	}, nil
}

// Put uploads the object and returns its canonical HTTPS URL.
func (s *S3Store) Put(ctx context.Context, name string, data []byte) (string, error) {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.Bucket, s.Region, name), nil
}
