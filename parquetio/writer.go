// Package parquetio writes and reads the hourly Parquet files.
package parquetio

import (
	"io"
	"sort"

	"github.com/parquet-go/parquet-go"

	"github.com/teranos/hourgen/errors"
	"github.com/teranos/hourgen/record"
	"github.com/teranos/hourgen/schema"
	"github.com/teranos/hourgen/version"
)

// Metadata keys written into every file's key/value metadata.
const (
	MetaTargetHour = "hourgen.target_hour"
	MetaRunID      = "hourgen.run_id"
	MetaSchema     = "hourgen.schema"
)

// Codec is the fixed compression codec for generated files.
var Codec = &parquet.Snappy

// Writer appends records to a Snappy-compressed Parquet file on a sink.
// It owns the sink: Close finalizes the file and closes the sink.
type Writer struct {
	sink   io.WriteCloser
	pw     *parquet.GenericWriter[record.Record]
	rows   int
	closed bool
}

// NewWriter starts a Parquet file on sink. The root schema node is named
// after the Avro record; metadata is stored as file key/value metadata.
func NewWriter(sink io.WriteCloser, s *schema.Schema, metadata map[string]string) *Writer {
	info := version.Get()
	opts := []parquet.WriterOption{
		parquet.NewSchema(s.Name, parquet.SchemaOf(record.Record{})),
		parquet.Compression(Codec),
		parquet.CreatedBy(version.Application, info.Version, info.Short()),
		parquet.KeyValueMetadata(MetaSchema, s.FullName()),
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		opts = append(opts, parquet.KeyValueMetadata(k, metadata[k]))
	}

	return &Writer{
		sink: sink,
		pw:   parquet.NewGenericWriter[record.Record](sink, opts...),
	}
}

// Write appends one record.
func (w *Writer) Write(r record.Record) error {
	if w.closed {
		return errors.New("write to closed parquet writer")
	}
	if _, err := w.pw.Write([]record.Record{r}); err != nil {
		return errors.Wrapf(err, "failed to append record %d", r.ID)
	}
	w.rows++
	return nil
}

// Rows is the number of records appended so far.
func (w *Writer) Rows() int {
	return w.rows
}

// Close writes the footer and closes the sink. The sink is closed even when
// the footer fails; both errors are reported.
func (w *Writer) Close() error {
	if w.closed {
		return errors.New("parquet writer already closed")
	}
	w.closed = true

	var err error
	if perr := w.pw.Close(); perr != nil {
		err = errors.Wrap(perr, "failed to finalize parquet file")
	}
	if serr := w.sink.Close(); serr != nil {
		err = errors.CombineErrors(err, errors.Wrap(serr, "failed to close sink"))
	}
	return err
}
