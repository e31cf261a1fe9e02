package publish

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/elkit/internal/errors"
)

func TestFilePublisher(t *testing.T) {
	dir := t.TempDir()
	p := NewFilePublisher(dir)

	if err := p.Publish(context.Background(), "site/index.html", []byte("<p>x</p>")); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "site", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "<p>x</p>" {
		t.Errorf("file = %q", got)
	}
}

func TestFilePublisherCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewFilePublisher(t.TempDir()).Publish(ctx, "a.html", nil); !stderrors.Is(err, context.Canceled) {
		t.Errorf("Publish = %v, want context.Canceled", err)
	}
}

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestS3Publisher(t *testing.T) {
	tests := []struct {
		prefix   string
		name     string
		wantKey  string
		wantType string
	}{
		{"", "index.html", "index.html", "text/html; charset=utf-8"},
		{"site/v1", "index.html", "site/v1/index.html", "text/html; charset=utf-8"},
		{"site", "data.unknownext", "site/data.unknownext", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.wantKey, func(t *testing.T) {
			fake := &fakeS3{}
			p := NewS3Publisher(fake, "bucket", tt.prefix)

			if err := p.Publish(context.Background(), tt.name, []byte("body")); err != nil {
				t.Fatal(err)
			}
			in := fake.inputs[0]
			if aws.ToString(in.Bucket) != "bucket" || aws.ToString(in.Key) != tt.wantKey {
				t.Errorf("PutObject bucket/key = %s/%s", aws.ToString(in.Bucket), aws.ToString(in.Key))
			}
			if aws.ToString(in.ContentType) != tt.wantType {
				t.Errorf("ContentType = %q, want %q", aws.ToString(in.ContentType), tt.wantType)
			}
			if fake.bodies[0] != "body" {
				t.Errorf("body = %q", fake.bodies[0])
			}
		})
	}
}

func TestS3PublisherError(t *testing.T) {
	cause := stderrors.New("access denied")
	p := NewS3Publisher(&fakeS3{err: cause}, "b", "")

	err := p.Publish(context.Background(), "a.html", nil)
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Code != "E060" {
		t.Fatalf("Publish = %v, want E060", err)
	}
	if !stderrors.Is(err, cause) {
		t.Error("error should wrap the client error")
	}
}

func TestOpen(t *testing.T) {
	isolateAWS(t)

	tests := []struct {
		target     string
		wantS3     bool
		wantBucket string
		wantErr    bool
	}{
		{target: "out", wantS3: false},
		{target: "s3://site", wantS3: true, wantBucket: "site"},
		{target: "s3://site/preview/", wantS3: true, wantBucket: "site"},
		{target: "s3://", wantErr: true},
		{target: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			p, err := Open(context.Background(), tt.target, S3Options{Endpoint: "http://localhost:9000"})
			if tt.wantErr {
				var e *errors.Error
				if !stderrors.As(err, &e) || e.Code != "E061" {
					t.Fatalf("Open error = %v, want E061", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			s3p, isS3 := p.(*S3Publisher)
			if isS3 != tt.wantS3 {
				t.Fatalf("Open(%q) = %T", tt.target, p)
			}
			if isS3 && s3p.Bucket() != tt.wantBucket {
				t.Errorf("Bucket() = %q, want %q", s3p.Bucket(), tt.wantBucket)
			}
		})
	}
}

// isolateAWS points the shared config files at an empty directory so the
// tests only see the variables they set.
func isolateAWS(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_SESSION_TOKEN", "")
}

func TestNewS3Client(t *testing.T) {
	isolateAWS(t)
	t.Setenv("AWS_REGION", "eu-west-1")

	tests := []struct {
		name         string
		opts         S3Options
		wantRegion   string
		wantEndpoint string
	}{
		{name: "region from environment", wantRegion: "eu-west-1"},
		{name: "region override", opts: S3Options{Region: "us-west-2"}, wantRegion: "us-west-2"},
		{
			name:         "custom endpoint",
			opts:         S3Options{Endpoint: "http://localhost:9000"},
			wantRegion:   "eu-west-1",
			wantEndpoint: "http://localhost:9000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewS3Client(context.Background(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			o := client.Options()
			if o.Region != tt.wantRegion {
				t.Errorf("Region = %q, want %q", o.Region, tt.wantRegion)
			}
			if got := aws.ToString(o.BaseEndpoint); got != tt.wantEndpoint {
				t.Errorf("BaseEndpoint = %q, want %q", got, tt.wantEndpoint)
			}
			if o.UsePathStyle != (tt.wantEndpoint != "") {
				t.Errorf("UsePathStyle = %v", o.UsePathStyle)
			}

			creds, err := o.Credentials.Retrieve(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" {
				t.Errorf("credentials = %+v", creds)
			}
		})
	}
}
