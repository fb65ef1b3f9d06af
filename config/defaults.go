package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/hourgen/target"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Output defaults
	v.SetDefault("output.prefix", target.DefaultPrefix)
	v.SetDefault("output.quick", false)

	// Empty selects the embedded schema
	v.SetDefault("schema.path", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", "everforest")

	// Metrics server disabled unless an address is given
	v.SetDefault("metrics.addr", "")

	// S3 defaults: region and endpoint fall back to the AWS SDK chain
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.use_path_style", false)
}
