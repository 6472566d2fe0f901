package publish

import (
	"bytes"
	"context"
	"fmt"
	"path"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config configures an S3 or S3-compatible (MinIO) bucket.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	Prefix          string `yaml:"prefix"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

// S3Sink uploads files as objects in a single bucket.
type S3Sink struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Sink builds a sink from cfg. Static credentials are used when both
// keys are set, otherwise the default credential chain applies.
func NewS3Sink(ctx context.Context, cfg S3Config, optFns ...func(*s3.Options)) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		for _, fn := range optFns {
			fn(o)
		}
	})
	return &S3Sink{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (s *S3Sink) Driver() Driver { return DriverS3 }

func (s *S3Sink) Put(ctx context.Context, key string, payload []byte, contentType string) error {
	clean, err := CleanKey(key)
	if err != nil {
		return err
	}
	if s.prefix != "" {
		clean = path.Join(s.prefix, clean)
	}
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(clean),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, clean, err)
	}
	return nil
}

func (s *S3Sink) Close(context.Context) error { return nil }
