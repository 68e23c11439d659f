package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3PutAPI is the slice of the S3 client the store needs.
type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Store mirrors files into a bucket, keyed by repository path.
type s3Store struct {
	client s3PutAPI
	bucket string
}

// newS3Store loads the AWS credential chain for cfg.Region/cfg.Profile and creates a store for
// cfg.Bucket. Retries are disabled: a failed upload is reported, not repeated.
func newS3Store(ctx context.Context, cfg *Config) (*s3Store, error) {
	configOpts := []func(*config.LoadOptions) error{
		config.WithRetryMaxAttempts(1),
	}
	if cfg.Region != "" {
		configOpts = append(configOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Verify credentials are available
	if _, err := awsCfg.Credentials.Retrieve(ctx); err != nil {
		return nil, fmt.Errorf("unable to initialize AWS credentials - please check environment: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3StoreWithClient(client, cfg.Bucket), nil
}

// newS3StoreWithClient creates a store with a custom S3 client.
// Useful for testing with custom endpoints (e.g., LocalStack).
func newS3StoreWithClient(client s3PutAPI, bucket string) *s3Store {
	return &s3Store{client: client, bucket: bucket}
}

// Put implements ContentStore.Put with a single PutObject; the whole body is already in memory.
func (s *s3Store) Put(ctx context.Context, input *PutInput) (*PutOutput, error) {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(input.Path)))

	sdkInput := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(input.Path),
		Body:          bytes.NewReader(input.Content),
		ContentLength: aws.Int64(int64(len(input.Content))),
	}
	if contentType != "" {
		sdkInput.ContentType = aws.String(contentType)
	}

	result, err := s.client.PutObject(ctx, sdkInput)
	if err != nil {
		var re interface{ HTTPStatusCode() int }
		if errors.As(err, &re) {
			return nil, &StatusError{Code: re.HTTPStatusCode(), Body: err.Error()}
		}
		return nil, err
	}

	return &PutOutput{
		StatusCode: 200,
		SHA:        strings.Trim(aws.ToString(result.ETag), `"`),
	}, nil
}
