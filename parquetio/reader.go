package parquetio

import (
	"bytes"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"

	"github.com/teranos/hourgen/errors"
	"github.com/teranos/hourgen/record"
)

// FileInfo summarizes a Parquet file's footer.
type FileInfo struct {
	Rows      int64             `json:"rows"`
	RowGroups int               `json:"row_groups"`
	Columns   []string          `json:"columns"`
	Codec     string            `json:"codec"`
	CreatedBy string            `json:"created_by"`
	Metadata  map[string]string `json:"metadata"`
}

// Inspect reads the footer of an in-memory Parquet file.
func Inspect(data []byte) (FileInfo, error) {
	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return FileInfo{}, errors.Wrap(err, "failed to open parquet file")
	}

	meta := f.Metadata()
	info := FileInfo{
		Rows:      f.NumRows(),
		RowGroups: len(meta.RowGroups),
		CreatedBy: meta.CreatedBy,
		Metadata:  make(map[string]string, len(meta.KeyValueMetadata)),
	}
	for _, kv := range meta.KeyValueMetadata {
		info.Metadata[kv.Key] = kv.Value
	}
	for _, col := range f.Schema().Columns() {
		info.Columns = append(info.Columns, col[len(col)-1])
	}
	if len(meta.RowGroups) > 0 && len(meta.RowGroups[0].Columns) > 0 {
		info.Codec = codecName(meta.RowGroups[0].Columns[0].MetaData.Codec)
	}
	return info, nil
}

// ReadRecords decodes every row of an in-memory Parquet file.
func ReadRecords(data []byte) ([]record.Record, error) {
	rows, err := parquet.Read[record.Record](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read parquet rows")
	}
	return rows, nil
}

func codecName(c format.CompressionCodec) string {
	switch c {
	case format.Uncompressed:
		return "UNCOMPRESSED"
	case format.Snappy:
		return "SNAPPY"
	case format.Gzip:
		return "GZIP"
	case format.Zstd:
		return "ZSTD"
	case format.Lz4Raw:
		return "LZ4_RAW"
	default:
		return c.String()
	}
}
