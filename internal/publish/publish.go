// Package publish writes rendered pages to a directory or an S3 bucket.
package publish

import (
	"context"
	"net/url"
	"strings"

	"github.com/vango-dev/elkit/internal/errors"
)

// Publisher stores a named document.
type Publisher interface {
	Publish(ctx context.Context, name string, body []byte) error
}

// S3Options configures publishers opened for s3:// targets.
type S3Options struct {
	// Region overrides the region from the AWS configuration chain.
	Region string

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	// Path-style addressing is used when it is set.
	Endpoint string
}

// Open returns the publisher for target: s3://bucket/prefix selects S3 and
// anything else is a local directory.
func Open(ctx context.Context, target string, opts S3Options) (Publisher, error) {
	if target == "" {
		return nil, errors.New("E061").WithOp("open")
	}
	if !strings.HasPrefix(target, "s3://") {
		return NewFilePublisher(target), nil
	}

	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return nil, errors.New("E061").WithOp("open").WithDetail(target)
	}
	client, err := NewS3Client(ctx, opts)
	if err != nil {
		return nil, err
	}
	return NewS3Publisher(client, u.Host, strings.TrimPrefix(u.Path, "/")), nil
}
