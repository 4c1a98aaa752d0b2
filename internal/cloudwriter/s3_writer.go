package cloudwriter

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

var contentTypes = map[string]string{
	".parquet": "application/vnd.apache.parquet",
	".json":    "application/json",
	".csv":     "text/csv",
}

// Uploader is the part of the S3 client the writer needs.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Writer struct {
	ctx    context.Context
	client Uploader
	bucket string
	key    string
	buffer bytes.Buffer
	closed bool
}

// S3WriterFactory opens S3Writers sharing one client. Uploads run under ctx.
type S3WriterFactory struct {
	ctx    context.Context
	client Uploader
}

func NewS3WriterFactory(ctx context.Context, region string) (*S3WriterFactory, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewS3WriterFactoryWithClient(ctx, s3.NewFromConfig(awsCfg)), nil
}

func NewS3WriterFactoryWithClient(ctx context.Context, client Uploader) *S3WriterFactory {
	return &S3WriterFactory{ctx: ctx, client: client}
}

func (f *S3WriterFactory) NewWriter(bucket, objectPath string) (CloudWriter, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required for %s", objectPath)
	}
	return &S3Writer{
		ctx:    f.ctx,
		client: f.client,
		bucket: bucket,
		key:    objectPath,
	}, nil
}

func (w *S3Writer) Write(data []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("write to closed writer for s3://%s/%s", w.bucket, w.key)
	}
	return w.buffer.Write(data)
}

// Close uploads the buffered object. Closing twice is a no-op.
func (w *S3Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	input := &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
		Body:   bytes.NewReader(w.buffer.Bytes()),
	}
	if ct, ok := contentTypes[path.Ext(w.key)]; ok {
		input.ContentType = aws.String(ct)
	}
	if _, err := w.client.PutObject(w.ctx, input); err != nil {
		return fmt.Errorf("unable to upload s3://%s/%s: %w", w.bucket, w.key, err)
	}

	log.Debug().Str("bucket", w.bucket).Str("key", w.key).Int("bytes", w.buffer.Len()).Msg("uploaded report object")
	w.buffer.Reset()
	return nil
}
