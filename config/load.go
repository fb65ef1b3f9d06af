package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/hourgen/errors"
)

// New builds a Viper instance with defaults, environment binding and config
// files. An explicit configFile must exist; otherwise the user config and
// the nearest project hourgen.toml are merged when present.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			err = errors.Wrapf(err, "failed to read config file %s", configFile)
			return nil, errors.Mark(err, errors.ErrInvalidInput)
		}
		return v, nil
	}

	if err := mergeConfigFiles(v, searchPaths()); err != nil {
		return nil, errors.Mark(err, errors.ErrInvalidInput)
	}
	return v, nil
}

// Load reads the configuration from the default sources and validates it.
func Load() (*Config, error) {
	v, err := New("")
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper loads and validates configuration from a prepared Viper
// instance, e.g. one with command-line flags bound.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		err = errors.Wrap(err, "failed to unmarshal config")
		return nil, errors.Mark(err, errors.ErrInvalidInput)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, without
// environment overrides.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		err = errors.Wrapf(err, "failed to read config file %s", configPath)
		return nil, errors.Mark(err, errors.ErrInvalidInput)
	}
	return LoadWithViper(v)
}

// searchPaths lists config files in increasing precedence: user, project.
func searchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, UserConfigDir, UserConfigName))
	}
	if project := findProjectConfig(); project != "" {
		paths = append(paths, project)
	}
	return paths
}

// findProjectConfig walks up from the working directory looking for
// hourgen.toml. Returns empty string if none is found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges existing files in order, later files winning.
// A file that exists but cannot be parsed is an error.
func mergeConfigFiles(v *viper.Viper, paths []string) error {
	for _, configPath := range paths {
		if _, err := os.Stat(configPath); err != nil {
			continue
		}

		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.MergeInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", configPath)
		}
	}
	return nil
}
