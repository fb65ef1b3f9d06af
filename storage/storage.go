// Package storage opens output sinks addressed by URI-style paths.
//
// Supported schemes:
//
//	file:///tmp/out/x.parquet   local filesystem (also bare paths)
//	mem://out/x.parquet         process-wide in-memory filesystem
//	s3://bucket/key.parquet     Amazon S3 (or compatible endpoint)
//	gs://bucket/key.parquet     Google Cloud Storage
//
// Every sink buffers as its backend does and is flushed by Close.
package storage

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/hourgen/errors"
	"github.com/teranos/hourgen/logger"
)

// Schemes
const (
	SchemeFile = "file"
	SchemeMem  = "mem"
	SchemeS3   = "s3"
	SchemeGCS  = "gs"
)

// ContentType is set on objects written to remote stores.
const ContentType = "application/vnd.apache.parquet"

var memFS = afero.NewMemMapFs()

// MemFS returns the filesystem behind mem:// paths.
func MemFS() afero.Fs {
	return memFS
}

// Config configures remote backends.
type Config struct {
	S3Region       string
	S3Endpoint     string
	S3UsePathStyle bool
}

// Opener creates sinks for output locations. Remote clients are created
// on first use; tests may set them directly.
type Opener struct {
	Local  afero.Fs
	Memory afero.Fs
	S3     S3API
	GCS    GCSAPI

	cfg    Config
	mu     sync.Mutex
	logger *zap.SugaredLogger
}

// NewOpener returns an opener backed by the OS filesystem.
func NewOpener(cfg Config) *Opener {
	return &Opener{
		Local:  afero.NewOsFs(),
		Memory: memFS,
		cfg:    cfg,
		logger: logger.ComponentLogger("storage"),
	}
}

// Target is a parsed output URI.
type Target struct {
	Scheme string
	Bucket string // s3/gs bucket, empty otherwise
	Path   string // filesystem path or object key
}

// ParseURI splits a URI-style path into scheme, bucket and path.
func ParseURI(uri string) (Target, error) {
	if !strings.Contains(uri, "://") {
		return Target{Scheme: SchemeFile, Path: path.Clean(uri)}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return Target{}, errors.Wrapf(err, "invalid path %q", uri)
	}

	switch u.Scheme {
	case SchemeFile:
		return Target{Scheme: SchemeFile, Path: path.Clean(u.Path)}, nil
	case SchemeMem:
		return Target{Scheme: SchemeMem, Path: path.Clean("/" + u.Host + u.Path)}, nil
	case SchemeS3, SchemeGCS:
		if u.Host == "" {
			return Target{}, errors.Newf("path %q has no bucket", uri)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if key == "" {
			return Target{}, errors.Newf("path %q has no object key", uri)
		}
		return Target{Scheme: u.Scheme, Bucket: u.Host, Path: key}, nil
	case "hdfs", "webhdfs":
		err := errors.Newf("scheme %q is not supported", u.Scheme)
		return Target{}, errors.WithHint(err, "write to file://, s3:// or gs:// and copy into HDFS")
	default:
		err := errors.Newf("scheme %q is not supported", u.Scheme)
		return Target{}, errors.WithHint(err, "supported schemes: file, mem, s3, gs")
	}
}

// Create opens a new sink at uri. Local files are created exclusively, so an
// existing file is never overwritten. Failures are marked errors.ErrAcquire.
//
// Remote uploads are detached from ctx cancellation so an interrupted run can
// still finalize what it wrote.
func (o *Opener) Create(ctx context.Context, uri string) (io.WriteCloser, error) {
	t, err := ParseURI(uri)
	if err != nil {
		return nil, errors.Mark(err, errors.ErrAcquire)
	}

	w, err := o.create(ctx, t)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to open %s", uri), errors.ErrAcquire)
	}
	o.log().Debugw("Opened sink", logger.FieldPath, uri, "scheme", t.Scheme)
	return w, nil
}

func (o *Opener) create(ctx context.Context, t Target) (io.WriteCloser, error) {
	switch t.Scheme {
	case SchemeFile:
		return createFile(o.localFS(), t.Path)
	case SchemeMem:
		return createFile(o.memoryFS(), t.Path)
	case SchemeS3:
		api, err := o.s3API(ctx)
		if err != nil {
			return nil, err
		}
		return newS3Sink(context.WithoutCancel(ctx), api, t.Bucket, t.Path), nil
	case SchemeGCS:
		api, err := o.gcsAPI(ctx)
		if err != nil {
			return nil, err
		}
		return api.NewWriter(context.WithoutCancel(ctx), t.Bucket, t.Path), nil
	default:
		return nil, errors.Newf("scheme %q is not supported", t.Scheme)
	}
}

// ReadFile returns the full contents at uri.
func (o *Opener) ReadFile(ctx context.Context, uri string) ([]byte, error) {
	t, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	switch t.Scheme {
	case SchemeFile:
		return afero.ReadFile(o.localFS(), t.Path)
	case SchemeMem:
		return afero.ReadFile(o.memoryFS(), t.Path)
	case SchemeS3:
		api, err := o.s3API(ctx)
		if err != nil {
			return nil, err
		}
		return readS3(ctx, api, t.Bucket, t.Path)
	case SchemeGCS:
		api, err := o.gcsAPI(ctx)
		if err != nil {
			return nil, err
		}
		r, err := api.NewReader(ctx, t.Bucket, t.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open gs://%s/%s", t.Bucket, t.Path)
		}
		defer r.Close()
		return io.ReadAll(r)
	default:
		return nil, errors.Newf("scheme %q is not supported", t.Scheme)
	}
}

func createFile(fs afero.Fs, p string) (io.WriteCloser, error) {
	if err := fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create directory %s", path.Dir(p))
	}
	f, err := fs.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (o *Opener) localFS() afero.Fs {
	if o.Local == nil {
		return afero.NewOsFs()
	}
	return o.Local
}

func (o *Opener) memoryFS() afero.Fs {
	if o.Memory == nil {
		return memFS
	}
	return o.Memory
}

func (o *Opener) log() *zap.SugaredLogger {
	if o.logger == nil {
		return logger.ComponentLogger("storage")
	}
	return o.logger
}

// Close releases remote clients created by the opener.
func (o *Opener) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if c, ok := o.GCS.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
