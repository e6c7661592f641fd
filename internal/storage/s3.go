package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Config configures an S3 or Cloudflare R2 bucket. Setting AccountID selects
// the R2 endpoint for that account unless Endpoint is set explicitly.
type S3Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store keeps artifacts as objects in a bucket.
type S3Store struct {
	client objectAPI
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Store builds a client from the default AWS configuration chain, with
// static credentials when keys are given.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is empty")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	region := cfg.Region
	if region == "" && cfg.AccountID != "" {
		region = "auto"
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" && cfg.AccountID != "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newS3Store(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3Store(client objectAPI, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

// Save uploads data with a create-only condition and moves to the next
// millisecond when the name is taken.
func (s *S3Store) Save(ctx context.Context, kind string, data []byte) (string, error) {
	if err := checkKind(kind); err != nil {
		return "", err
	}

	millis := s.now().UnixMilli()
	for i := int64(0); i < maxNameAttempts; i++ {
		name := ArtifactName(kind, millis+i)
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(s.prefix + name),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("application/pdf"),
			IfNoneMatch: aws.String("*"),
		})
		if err == nil {
			return name, nil
		}
		if !isAPIError(err, "PreconditionFailed", "ConditionalRequestConflict") {
			return "", fmt.Errorf("failed to upload artifact: %w", err)
		}
	}
	return "", fmt.Errorf("no free artifact name for %s after %d attempts", kind, maxNameAttempts)
}

// Open streams an artifact from the bucket.
func (s *S3Store) Open(ctx context.Context, name string) (*Object, error) {
	if !ValidName(name) {
		return nil, ErrInvalidName
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + name),
	})
	if err != nil {
		if isAPIError(err, "NoSuchKey", "NotFound") {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to download artifact: %w", err)
	}

	obj := &Object{Body: out.Body, Size: -1, ContentType: "application/pdf"}
	if out.ContentLength != nil {
		obj.Size = *out.ContentLength
	}
	if out.ContentType != nil {
		obj.ContentType = *out.ContentType
	}
	return obj, nil
}

func isAPIError(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}
