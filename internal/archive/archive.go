// Package archive keeps the raw bytes of uploaded files in S3-compatible object storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Archiver stores an uploaded file and returns the object key.
type Archiver interface {
	Archive(ctx context.Context, filename string, content []byte) (string, error)
}

// Options configures the S3 archive.
type Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver writes uploads under uploads/YYYY/MM/DD/.
type S3Archiver struct {
	bucket string
	client putObjectAPI
	now    func() time.Time
}

// Noop discards uploads.
type Noop struct{}

func (Noop) Archive(context.Context, string, []byte) (string, error) {
	return "", nil
}

// New returns an S3Archiver, or Noop when no bucket is configured.
func New(ctx context.Context, opts Options) (Archiver, error) {
	if opts.Bucket == "" {
		return Noop{}, nil
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Archiver{bucket: opts.Bucket, client: client, now: time.Now}, nil
}

// Archive uploads content and returns its key.
func (a *S3Archiver) Archive(ctx context.Context, filename string, content []byte) (string, error) {
	key := ObjectKey(a.now(), uuid.NewString(), filename)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String(contentType(filename)),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

// ObjectKey builds uploads/YYYY/MM/DD/<id>-<base name>.
func ObjectKey(t time.Time, id, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = "upload"
	}
	return fmt.Sprintf("uploads/%04d/%02d/%02d/%s-%s", t.Year(), t.Month(), t.Day(), id, base)
}

func contentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	}
	return "application/octet-stream"
}
