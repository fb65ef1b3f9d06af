package generate

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/hourgen/emit"
	"github.com/teranos/hourgen/errors"
	"github.com/teranos/hourgen/pace"
	"github.com/teranos/hourgen/parquetio"
	"github.com/teranos/hourgen/record"
	"github.com/teranos/hourgen/storage"
	"github.com/teranos/hourgen/target"
)

// countingOpener records every Create call before delegating.
type countingOpener struct {
	*storage.Opener
	creates []string
}

func (c *countingOpener) Create(ctx context.Context, uri string) (io.WriteCloser, error) {
	c.creates = append(c.creates, uri)
	return c.Opener.Create(ctx, uri)
}

func newTestGenerator(t *testing.T) (*Generator, *countingOpener) {
	t.Helper()
	o := storage.NewOpener(storage.Config{})
	o.Local = afero.NewMemMapFs()
	o.Memory = afero.NewMemMapFs()
	opener := &countingOpener{Opener: o}

	g := New(opener)
	g.SchemaFS = afero.NewMemMapFs()
	g.Names = target.NewSeededNames(7, 11)
	g.NewRunID = func() string { return "run-test" }
	g.Resolver = &target.Resolver{Now: func() time.Time {
		return time.Date(2024, 3, 15, 7, 30, 0, 0, time.UTC)
	}}
	return g, opener
}

func strptr(s string) *string { return &s }

func TestRun_MalformedDatetimeFailsBeforeAcquisition(t *testing.T) {
	for _, in := range []string{"abc", "202403150", "2024-03-15", "20240315xx"} {
		t.Run(in, func(t *testing.T) {
			g, opener := newTestGenerator(t)

			_, err := g.Run(context.Background(), Options{Datetime: strptr(in), Quick: true})
			require.Error(t, err)

			assert.Equal(t, errors.KindInvalidInput, errors.KindOf(err))
			assert.Empty(t, opener.creates, "no sink is opened")
		})
	}
}

func TestRun_QuickEndToEnd(t *testing.T) {
	g, opener := newTestGenerator(t)

	res, err := g.Run(context.Background(), Options{
		Datetime: strptr("2024031507"),
		Prefix:   "file:///data",
		Quick:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, target.Hour{Year: 2024, Month: 3, Day: 15, Hour: 7}, res.Hour)
	assert.Equal(t, emit.Quota, res.Summary.Records)
	assert.Equal(t, "com.teranos.hourgen.samplerec", res.Schema)

	uri := res.Location.String()
	assert.True(t, strings.HasPrefix(uri, "file:///data/year=2024/month=3/day=15/hour=7/"), uri)
	assert.True(t, strings.HasSuffix(uri, ".parquet"))
	require.Equal(t, []string{uri}, opener.creates)

	data, err := opener.ReadFile(context.Background(), uri)
	require.NoError(t, err)

	rows, err := parquetio.ReadRecords(data)
	require.NoError(t, err)
	require.Len(t, rows, 100)
	for i, r := range rows {
		assert.Equal(t, int32(i), r.ID)
		assert.Equal(t, "2024031507", r.FDatetime[:10])
		assert.Len(t, r.Name, 10)
	}

	info, err := parquetio.Inspect(data)
	require.NoError(t, err)
	assert.Equal(t, "SNAPPY", info.Codec)
	assert.Equal(t, "run-test", info.Metadata[parquetio.MetaRunID])
	assert.Equal(t, "2024031507", info.Metadata[parquetio.MetaTargetHour])
}

func TestRun_ClockSelectsHour(t *testing.T) {
	g, _ := newTestGenerator(t)

	res, err := g.Run(context.Background(), Options{Prefix: "mem://out", Quick: true})
	require.NoError(t, err)

	assert.Equal(t, target.Hour{Year: 2024, Month: 3, Day: 15, Hour: 7}, res.Hour)
	assert.Contains(t, res.Location.String(), "mem://out/year=2024/month=3/day=15/hour=7/")
}

func TestRun_DefaultPrefix(t *testing.T) {
	g, _ := newTestGenerator(t)

	res, err := g.Run(context.Background(), Options{Datetime: strptr("2024031507"), Quick: true})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Location.String(), "file:///tmp/year=2024/"))
}

func TestRun_OutOfRangeHourIsAccepted(t *testing.T) {
	g, _ := newTestGenerator(t)

	res, err := g.Run(context.Background(), Options{Datetime: strptr("2024133125"), Prefix: "mem://out", Quick: true})
	require.NoError(t, err)
	assert.Contains(t, res.Location.String(), "/year=2024/month=13/day=31/hour=25/")
}

func TestRun_SchemaFromFile(t *testing.T) {
	g, _ := newTestGenerator(t)
	avsc := `{"type":"record","name":"custom","namespace":"org.example","fields":[
		{"name":"id","type":"int"},{"name":"name","type":"string"},{"name":"fdatetime","type":"string"}]}`
	require.NoError(t, afero.WriteFile(g.SchemaFS, "/schemas/custom.avsc", []byte(avsc), 0o644))

	res, err := g.Run(context.Background(), Options{
		Datetime:   strptr("2024031507"),
		Prefix:     "mem://out",
		Quick:      true,
		SchemaPath: "/schemas/custom.avsc",
	})
	require.NoError(t, err)
	assert.Equal(t, "org.example.custom", res.Schema)
}

func TestRun_MissingSchemaFailsBeforeAcquisition(t *testing.T) {
	g, opener := newTestGenerator(t)

	_, err := g.Run(context.Background(), Options{
		Datetime:   strptr("2024031507"),
		Quick:      true,
		SchemaPath: "/nope.avsc",
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindAcquire, errors.KindOf(err))
	assert.Empty(t, opener.creates)
}

func TestRun_UnsupportedPrefix(t *testing.T) {
	g, _ := newTestGenerator(t)

	_, err := g.Run(context.Background(), Options{
		Datetime: strptr("2024031507"),
		Prefix:   "hdfs://namenode/testfiles",
		Quick:    true,
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindAcquire, errors.KindOf(err))
}

func TestRun_InterruptedDuringPacing(t *testing.T) {
	g, opener := newTestGenerator(t)
	g.PacerFor = func(bool) pace.Pacer { return pace.Every(time.Hour) }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := g.Run(ctx, Options{Datetime: strptr("2024031507"), Prefix: "mem://out"})
	require.Error(t, err)

	assert.Equal(t, errors.KindInterrupted, errors.KindOf(err))
	assert.Equal(t, 0, res.Summary.Records)
	assert.Len(t, opener.creates, 1, "writer was opened before the first wait")

	// The writer was released, so the file is a finalized, empty Parquet file
	data, err := opener.ReadFile(context.Background(), res.Location.String())
	require.NoError(t, err)
	info, err := parquetio.Inspect(data)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Rows)
}

type observer struct {
	states []emit.State
}

func (o *observer) StateChanged(_, to emit.State)                 { o.states = append(o.states, to) }
func (o *observer) RecordWritten(_ record.Record, _ time.Duration) {}

func TestRun_ObserverSeesResolutionFailure(t *testing.T) {
	g, _ := newTestGenerator(t)
	obs := &observer{}
	g.Observer = obs

	_, err := g.Run(context.Background(), Options{Datetime: strptr("bad")})
	require.Error(t, err)
	assert.Equal(t, []emit.State{emit.StateResolvingTarget, emit.StateAborted}, obs.states)
}
