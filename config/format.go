package config

import (
	"encoding/json"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/hourgen/errors"
)

// Formats accepted by Encode.
var Formats = []string{"toml", "json", "yaml"}

// Encode renders the configuration in the given format.
func Encode(cfg *Config, format string) ([]byte, error) {
	switch format {
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to TOML")
		}
		return data, nil
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to JSON")
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to YAML")
		}
		return data, nil
	default:
		err := errors.Newf("unsupported format: %s", format)
		return nil, errors.Mark(errors.WithHint(err, "supported: toml, json, yaml"), errors.ErrInvalidInput)
	}
}

// Source is one config file location and whether it exists.
type Source struct {
	Path   string
	Exists bool
}

// Sources lists the files New would merge without an explicit config file,
// lowest precedence first.
func Sources() []Source {
	paths := searchPaths()
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		_, err := os.Stat(p)
		sources = append(sources, Source{Path: p, Exists: err == nil})
	}
	return sources
}
