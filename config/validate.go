package config

import (
	"net"

	"github.com/teranos/hourgen/errors"
	"github.com/teranos/hourgen/storage"
)

// Validate checks that the configuration is valid. Errors are marked
// errors.ErrInvalidInput.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return errors.Mark(err, errors.ErrInvalidInput)
	}
	return nil
}

func (c *Config) validate() error {
	// Empty prefix falls back to the default; anything else must name a
	// supported backend
	if c.Output.Prefix != "" {
		if _, err := storage.ParseURI(c.Output.Prefix + "/probe.parquet"); err != nil {
			return errors.Wrapf(err, "output.prefix %q is invalid", c.Output.Prefix)
		}
	}

	switch c.Log.Theme {
	case "", "everforest", "gruvbox":
	default:
		err := errors.Newf("log.theme %q is not a known theme", c.Log.Theme)
		return errors.WithHint(err, "use everforest or gruvbox")
	}

	if c.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
			err = errors.Wrapf(err, "metrics.addr %q is invalid", c.Metrics.Addr)
			return errors.WithHint(err, "expected host:port, e.g. 127.0.0.1:9090 or :9090")
		}
	}

	if c.S3.UsePathStyle && c.S3.Endpoint == "" {
		return errors.New("s3.use_path_style requires s3.endpoint")
	}

	return nil
}

// StorageConfig returns the backend settings for storage.NewOpener.
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		S3Region:       c.S3.Region,
		S3Endpoint:     c.S3.Endpoint,
		S3UsePathStyle: c.S3.UsePathStyle,
	}
}
