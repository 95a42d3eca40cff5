package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dryp/marketplace/models"
)

type R2Options struct {
	Bucket       string
	AccessKeyID  string
	SecretKey    string
	Endpoint     string // https://<account-id>.r2.cloudflarestorage.com
	PublicDomain string
}

// R2 talks to Cloudflare R2 through the S3 API.
type R2 struct {
	s3     *s3.Client
	bucket string
	domain string
}

func NewR2(ctx context.Context, o R2Options) (*R2, error) {
	if o.Bucket == "" || o.AccessKeyID == "" || o.SecretKey == "" || o.Endpoint == "" {
		return nil, fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKeyID, o.SecretKey, ""),
		),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		so.BaseEndpoint = aws.String(o.Endpoint)
		so.UsePathStyle = true // required for R2
	})

	return &R2{s3: client, bucket: o.Bucket, domain: strings.TrimRight(o.PublicDomain, "/")}, nil
}

func (r *R2) Upload(ctx context.Context, body io.Reader, filename, contentType string) (models.Image, error) {
	name := objectName(filename, time.Now())

	_, err := r.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(name),
		Body:        body,
		ContentType: aws.String(contentTypeFor(filename, contentType)),
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("upload %s: %w", filename, err)
	}

	return models.Image{URL: r.publicURL(name), PublicID: name}, nil
}

func (r *R2) Delete(ctx context.Context, publicID string) error {
	_, err := r.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", publicID, err)
	}
	return nil
}

func (r *R2) publicURL(name string) string {
	return fmt.Sprintf("%s/%s/%s", r.domain, r.bucket, name)
}
