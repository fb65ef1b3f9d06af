package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/hourgen/errors"
	"github.com/teranos/hourgen/storage"
	"github.com/teranos/hourgen/version"
)

// execute runs the command tree with an isolated config file.
func execute(t *testing.T, configTOML string, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hourgen.toml")
	require.NoError(t, os.WriteFile(path, []byte(configTOML), 0o644))

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", path}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func generatedFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	err := afero.Walk(storage.MemFS(), dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestRoot_QuickRunWritesPartitionedFile(t *testing.T) {
	_, err := execute(t, "", "-q", "-d", "2024031507", "-p", "mem://cli-quick")
	require.NoError(t, err)

	files := generatedFiles(t, "/cli-quick")
	require.Len(t, files, 1)
	assert.True(t, strings.HasPrefix(files[0], "/cli-quick/year=2024/month=3/day=15/hour=7/"), files[0])
	assert.True(t, strings.HasSuffix(files[0], ".parquet"))

	out, err := execute(t, "", "inspect", "mem:/"+files[0], "--format", "json")
	require.NoError(t, err)

	var info struct {
		Rows     int64             `json:"rows"`
		Codec    string            `json:"codec"`
		Metadata map[string]string `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, int64(100), info.Rows)
	assert.Equal(t, "SNAPPY", info.Codec)
	assert.Equal(t, "2024031507", info.Metadata["hourgen.target_hour"])
}

func TestRoot_PrefixFromConfigFile(t *testing.T) {
	_, err := execute(t, "[output]\nprefix = \"mem://cli-config\"\nquick = true\n", "-d", "2024031507")
	require.NoError(t, err)
	assert.Len(t, generatedFiles(t, "/cli-config"), 1)
}

func TestRoot_MalformedDatetime(t *testing.T) {
	_, err := execute(t, "", "-q", "-d", "abc", "-p", "mem://cli-bad")
	require.Error(t, err)
	assert.Equal(t, errors.KindInvalidInput, errors.KindOf(err))

	exists, _ := afero.DirExists(storage.MemFS(), "/cli-bad")
	assert.False(t, exists, "nothing is written")

	var report bytes.Buffer
	ReportError(&report, err)
	assert.Contains(t, report.String(), "Error: ")
	assert.Contains(t, report.String(), "Hint: Optional argument datetime must be in format YYYYMMDDHH")
}

func TestRoot_RejectsArguments(t *testing.T) {
	_, err := execute(t, "", "unexpected")
	assert.Error(t, err)
}

func TestRoot_InvalidConfig(t *testing.T) {
	_, err := execute(t, "[log]\ntheme = \"solarized\"\n", "-q")
	require.Error(t, err)
	assert.Equal(t, errors.KindInvalidInput, errors.KindOf(err))
}

func TestInspect_TextWithRows(t *testing.T) {
	_, err := execute(t, "", "-q", "-d", "2024031507", "-p", "mem://cli-inspect")
	require.NoError(t, err)
	files := generatedFiles(t, "/cli-inspect")
	require.Len(t, files, 1)

	out, err := execute(t, "", "inspect", "mem:/"+files[0], "--rows")
	require.NoError(t, err)

	assert.Contains(t, out, "Rows:       100")
	assert.Contains(t, out, "Codec:      SNAPPY")
	assert.Contains(t, out, "hourgen.schema = com.teranos.hourgen.samplerec")
	assert.Contains(t, out, "\n99\t")
}

func TestInspect_Missing(t *testing.T) {
	_, err := execute(t, "", "inspect", "mem://nowhere/x.parquet")
	assert.Error(t, err)
}

func TestConfigShow(t *testing.T) {
	out, err := execute(t, "[output]\nprefix = \"s3://bucket/data\"\n", "config", "show", "--format", "json")
	require.NoError(t, err)

	var cfg struct {
		Output struct {
			Prefix string `json:"prefix"`
		} `json:"output"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "s3://bucket/data", cfg.Output.Prefix)

	out, err = execute(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# hourgen configuration")
	assert.Contains(t, out, "file:///tmp")

	_, err = execute(t, "", "config", "show", "--format", "xml")
	assert.Error(t, err)
}

func TestConfigGet(t *testing.T) {
	out, err := execute(t, "", "config", "get", "output.prefix")
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp\n", out)

	out, err = execute(t, "[s3]\nregion = \"eu-west-1\"\n", "config", "get", "s3.region")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1\n", out)

	_, err = execute(t, "", "config", "get", "no.such.key")
	assert.Error(t, err)
}

func TestConfigValidateAndWhere(t *testing.T) {
	out, err := execute(t, "", "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	out, err = execute(t, "", "config", "where")
	require.NoError(t, err)
	assert.Contains(t, out, "(--config)")
	assert.Contains(t, out, "HOURGEN_*")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hourgen")

	out, err = execute(t, "", "version", "--json")
	require.NoError(t, err)
	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
