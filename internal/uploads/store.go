// Package uploads stores crop images in an S3-compatible bucket and hands
// out short-lived presigned GET URLs so the inference service can read them
// without holding credentials.
package uploads

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/joyal-jij0/pragati/internal/config"
)

const presignExpiry = 15 * time.Minute

// Seams for tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Store writes and presigns objects in the configured bucket.
type Store struct {
	cfg config.S3Config
}

func NewStore(cfg config.S3Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKey,
			s.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
		}
	}), nil
}

// randomStorageKey spreads objects by date and makes collisions impossible.
func randomStorageKey(kind string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%02d/%02d/%v", kind, d.Year(), d.Month(), d.Day(), uuid.New())
}

// Put uploads body under a fresh storage key and returns the key.
func (s *Store) Put(ctx context.Context, kind string, body io.Reader, contentType string) (string, error) {
	client, err := s.client(ctx)
	if err != nil {
		return "", err
	}

	key := randomStorageKey(kind)
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return key, nil
}

// PresignGet returns a presigned GET URL for key, valid for 15 minutes.
func (s *Store) PresignGet(ctx context.Context, key string) (string, error) {
	client, err := s.client(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
