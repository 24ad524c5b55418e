package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrS3RegionRequired is returned when an s3:// target is used without a
// configured region.
var ErrS3RegionRequired = errors.New("s3 publish target needs S3_REGION")

// S3Options configures the S3 publisher. Credentials are optional: without
// them the default AWS chain applies.
type S3Options struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string // custom S3-compatible endpoints
	AccessKeyID     string
	SecretAccessKey string
}

// S3 uploads published files with PutObject.
type S3 struct {
	client *s3.Client
	bucket string
	region string
	prefix string
}

func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	if opts.Region == "" {
		return nil, ErrS3RegionRequired
	}

	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3{
		client: s3.NewFromConfig(awsCfg, clientOpts...),
		bucket: opts.Bucket,
		region: opts.Region,
		prefix: opts.Prefix,
	}, nil
}

func (s *S3) Publish(ctx context.Context, localPath, name string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	key := objectKey(s.prefix, name)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

func objectKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
