package parquetio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/hourgen/errors"
	"github.com/teranos/hourgen/record"
	"github.com/teranos/hourgen/schema"
)

type bufferSink struct {
	bytes.Buffer
	closes   int
	closeErr error
}

func (b *bufferSink) Close() error {
	b.closes++
	return b.closeErr
}

func writeSample(t *testing.T, sink *bufferSink, n int) {
	t.Helper()
	s, err := schema.Default()
	require.NoError(t, err)

	w := NewWriter(sink, s, map[string]string{
		MetaTargetHour: "2024031507",
		MetaRunID:      "run-1",
	})
	for i := 0; i < n; i++ {
		require.NoError(t, w.Write(record.Record{
			ID:        int32(i),
			Name:      "AbCdEfGhIj",
			FDatetime: "20240315070102",
		}))
	}
	assert.Equal(t, n, w.Rows())
	require.NoError(t, w.Close())
}

func TestWriter_RoundTrip(t *testing.T) {
	sink := &bufferSink{}
	writeSample(t, sink, 3)
	assert.Equal(t, 1, sink.closes)

	got, err := ReadRecords(sink.Bytes())
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, r := range got {
		assert.Equal(t, int32(i), r.ID)
		assert.Equal(t, "AbCdEfGhIj", r.Name)
		assert.Equal(t, "20240315070102", r.FDatetime)
	}
}

func TestInspect(t *testing.T) {
	sink := &bufferSink{}
	writeSample(t, sink, 5)

	info, err := Inspect(sink.Bytes())
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Rows)
	assert.Equal(t, "SNAPPY", info.Codec)
	assert.ElementsMatch(t, []string{"id", "name", "fdatetime"}, info.Columns)
	assert.Equal(t, "2024031507", info.Metadata[MetaTargetHour])
	assert.Equal(t, "run-1", info.Metadata[MetaRunID])
	assert.Equal(t, "com.teranos.hourgen.samplerec", info.Metadata[MetaSchema])
	assert.Contains(t, info.CreatedBy, "hourgen")
}

func TestInspect_NotParquet(t *testing.T) {
	_, err := Inspect([]byte("not a parquet file"))
	assert.Error(t, err)
}

func TestWriter_CloseOnce(t *testing.T) {
	sink := &bufferSink{}
	s, err := schema.Default()
	require.NoError(t, err)

	w := NewWriter(sink, s, nil)
	require.NoError(t, w.Close())
	assert.Error(t, w.Close())
	assert.Equal(t, 1, sink.closes, "sink is closed exactly once")

	assert.Error(t, w.Write(record.Record{}), "write after close")
}

func TestWriter_SinkCloseError(t *testing.T) {
	sink := &bufferSink{closeErr: errors.New("disk full")}
	s, err := schema.Default()
	require.NoError(t, err)

	w := NewWriter(sink, s, nil)
	err = w.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
