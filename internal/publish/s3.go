package publish

import (
	"bytes"
	"context"
	"mime"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/elkit/internal/errors"
)

// PutObjectAPI is the part of the S3 client the publisher uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher stores documents as objects in a bucket.
type S3Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Publisher creates a publisher for bucket. Object keys are
// prefix joined with the document name.
func NewS3Publisher(client PutObjectAPI, bucket, prefix string) *S3Publisher {
	return &S3Publisher{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Bucket returns the target bucket.
func (p *S3Publisher) Bucket() string { return p.bucket }

// Key returns the object key for name.
func (p *S3Publisher) Key(name string) string {
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

// Publish uploads body with a content type derived from the name.
func (p *S3Publisher) Publish(ctx context.Context, name string, body []byte) error {
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := p.Key(name)
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"publish-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return errors.New("E060").WithOp("publish").WithDetail("s3://" + p.bucket + "/" + key).Wrap(err)
	}
	return nil
}

// NewS3Client creates an S3 client from the default AWS configuration chain
// (environment, shared config and credentials files, SSO, instance roles).
// opts.Region overrides the configured region. A custom endpoint switches
// the client to path-style addressing.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.New("E060").WithOp("loadConfig").Wrap(err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
