// Package schema loads the Avro record schema that describes generated
// rows and checks it against record.Record.
package schema

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/hamba/avro/v2"
	"github.com/spf13/afero"

	"github.com/teranos/hourgen/errors"
)

//go:embed samplerec.avsc
var defaultSchema []byte

// DefaultSource names the embedded schema in logs and metadata.
const DefaultSource = "embedded:samplerec.avsc"

// required lists the fields record.Record writes and the Avro type each
// must have.
var required = map[string]avro.Type{
	"id":        avro.Int,
	"name":      avro.String,
	"fdatetime": avro.String,
}

// Field is one column of the loaded schema.
type Field struct {
	Name string
	Type avro.Type
}

// Schema is a validated record schema.
type Schema struct {
	Name      string
	Namespace string
	Fields    []Field
	Source    string

	parsed *avro.RecordSchema
}

// FullName is the namespace-qualified record name.
func (s *Schema) FullName() string {
	return s.parsed.FullName()
}

// Canonical returns the schema's JSON form.
func (s *Schema) Canonical() string {
	return s.parsed.String()
}

// Default returns the embedded schema.
func Default() (*Schema, error) {
	return Parse(defaultSchema, DefaultSource)
}

// Load reads a schema file from fs. An empty path selects the embedded
// default. Any failure is marked errors.ErrAcquire.
func Load(fs afero.Fs, path string) (*Schema, error) {
	if path == "" {
		return Default()
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read schema %s", path)
		return nil, errors.Mark(err, errors.ErrAcquire)
	}
	return Parse(data, path)
}

// Parse parses and validates an Avro record schema.
func Parse(data []byte, source string) (*Schema, error) {
	// Fresh cache per parse so reloading a named record never collides
	parsed, err := avro.ParseBytesWithCache(data, "", &avro.SchemaCache{})
	if err != nil {
		err = errors.Wrapf(err, "failed to parse schema %s", source)
		return nil, errors.Mark(err, errors.ErrAcquire)
	}

	rec, ok := parsed.(*avro.RecordSchema)
	if !ok {
		err := errors.Newf("schema %s is a %s, expected a record", source, parsed.Type())
		return nil, errors.Mark(err, errors.ErrAcquire)
	}

	s := &Schema{
		Name:      rec.Name(),
		Namespace: rec.Namespace(),
		Source:    source,
		parsed:    rec,
	}
	for _, f := range rec.Fields() {
		s.Fields = append(s.Fields, Field{Name: f.Name(), Type: f.Type().Type()})
	}

	if err := s.validate(); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "schema %s", source), errors.ErrAcquire)
	}
	return s, nil
}

// validate requires exactly the fields of record.Record with matching types.
func (s *Schema) validate() error {
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		want, ok := required[f.Name]
		if !ok {
			return errors.WithHint(
				errors.Newf("unexpected field %q", f.Name),
				fmt.Sprintf("generated records only carry the fields %v", requiredNames()),
			)
		}
		if f.Type != want {
			return errors.Newf("field %q has type %s, expected %s", f.Name, f.Type, want)
		}
		seen[f.Name] = true
	}

	for _, name := range requiredNames() {
		if !seen[name] {
			return errors.Newf("missing field %q", name)
		}
	}
	return nil
}

func requiredNames() []string {
	names := make([]string, 0, len(required))
	for name := range required {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
