// Package config loads hourgen configuration from defaults, an optional TOML
// file, HOURGEN_* environment variables and command-line flags, in increasing
// order of precedence.
package config

// Config represents the hourgen configuration
type Config struct {
	Output  OutputConfig  `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
	Schema  SchemaConfig  `mapstructure:"schema" toml:"schema" json:"schema" yaml:"schema"`
	Log     LogConfig     `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" toml:"metrics" json:"metrics" yaml:"metrics"`
	S3      S3Config      `mapstructure:"s3" toml:"s3" json:"s3" yaml:"s3"`
}

// OutputConfig configures where and how fast records are written
type OutputConfig struct {
	Prefix string `mapstructure:"prefix" toml:"prefix" json:"prefix" yaml:"prefix"` // e.g. file:///tmp, s3://bucket/data
	Quick  bool   `mapstructure:"quick" toml:"quick" json:"quick" yaml:"quick"`     // Disable pacing
}

// SchemaConfig selects the Avro record schema
type SchemaConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path" yaml:"path"` // Empty = embedded samplerec.avsc
}

// LogConfig configures log output
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Theme string `mapstructure:"theme" toml:"theme" json:"theme" yaml:"theme"` // Color theme: everforest, gruvbox
}

// MetricsConfig configures Prometheus exposition
type MetricsConfig struct {
	Addr string `mapstructure:"addr" toml:"addr" json:"addr" yaml:"addr"` // host:port, empty = disabled
}

// S3Config configures the s3:// backend. Credentials come from the standard
// AWS chain.
type S3Config struct {
	Region       string `mapstructure:"region" toml:"region" json:"region" yaml:"region"`
	Endpoint     string `mapstructure:"endpoint" toml:"endpoint" json:"endpoint" yaml:"endpoint"` // S3-compatible endpoint, e.g. MinIO
	UsePathStyle bool   `mapstructure:"use_path_style" toml:"use_path_style" json:"use_path_style" yaml:"use_path_style"`
}

// File locations
const (
	ProjectConfigName = "hourgen.toml"
	UserConfigDir     = ".hourgen"
	UserConfigName    = "config.toml"
	EnvPrefix         = "HOURGEN"
)
