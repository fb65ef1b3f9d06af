package storage

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/teranos/hourgen/errors"
)

// S3API is the subset of the S3 client used here.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func (o *Opener) s3API(ctx context.Context) (S3API, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.S3 != nil {
		return o.S3, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if o.cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(o.cfg.S3Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS configuration")
	}

	o.S3 = s3.NewFromConfig(awsCfg, func(opt *s3.Options) {
		if o.cfg.S3Endpoint != "" {
			opt.BaseEndpoint = aws.String(o.cfg.S3Endpoint)
		}
		opt.UsePathStyle = o.cfg.S3UsePathStyle
	})
	o.log().Debugw("Created S3 client", "region", awsCfg.Region, "endpoint", o.cfg.S3Endpoint)
	return o.S3, nil
}

// s3Sink buffers the whole object and uploads it on Close.
type s3Sink struct {
	ctx    context.Context
	api    S3API
	bucket string
	key    string
	buf    bytes.Buffer
	closed bool
}

func newS3Sink(ctx context.Context, api S3API, bucket, key string) *s3Sink {
	return &s3Sink{ctx: ctx, api: api, bucket: bucket, key: key}
}

func (s *s3Sink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, errors.New("write to closed S3 sink")
	}
	return s.buf.Write(p)
}

func (s *s3Sink) Close() error {
	if s.closed {
		return errors.New("S3 sink already closed")
	}
	s.closed = true

	_, err := s.api.PutObject(s.ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(s.buf.Bytes()),
		ContentLength: aws.Int64(int64(s.buf.Len())),
		ContentType:   aws.String(ContentType),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to upload s3://%s/%s", s.bucket, s.key)
	}
	return nil
}

func readS3(ctx context.Context, api S3API, bucket, key string) ([]byte, error) {
	out, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get s3://%s/%s", bucket, key)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
