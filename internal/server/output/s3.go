package output

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3KeyPrefix is prepended to the file name of every mirrored report.
const S3KeyPrefix = "reports/"

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Mirror receives a copy of every written report file.
type Mirror interface {
	Upload(ctx context.Context, fileName string, data []byte, contentType string) error
}

type s3PutClient interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Settings is the subset of the server config needed to reach a bucket.
type S3Settings struct {
	Bucket   string
	Region   string
	Endpoint string
	User     string
	Password string
}

type S3Mirror struct {
	bucket string
	client s3PutClient
}

// NewS3Mirror builds an S3 client with static credentials. An endpoint
// switches to path-style addressing so MinIO works.
func NewS3Mirror(ctx context.Context, s S3Settings) (*S3Mirror, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.User,
			s.Password,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Mirror{bucket: s.Bucket, client: client}, nil
}

func (m *S3Mirror) Upload(ctx context.Context, fileName string, data []byte, contentType string) error {
	key := path.Join(S3KeyPrefix, fileName)

	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return nil
}
