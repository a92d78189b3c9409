package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/downfa11-org/boundlog/pkg/disk"
	"github.com/downfa11-org/boundlog/pkg/types"
	"github.com/downfa11-org/boundlog/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSample(t *testing.T, lines int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	lf := disk.New(path, func(err error) { t.Errorf("unexpected error: %v", err) },
		disk.WithProductName("cli"), disk.WithMetrics(false))
	require.NoError(t, lf.Open())
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	for i := 0; i < lines; i++ {
		lf.WriteLog(types.LevelInfo, "msg", types.Fields{"i": i}, ts)
	}
	require.NoError(t, lf.Close())
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTailCommand(t *testing.T) {
	path := writeSample(t, 5)

	out, err := run(t, "tail", "-n", "2", path)
	require.NoError(t, err)
	got := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		`2024-05-06T07:08:09.000Z INFO  msg {"i":3}`,
		`2024-05-06T07:08:09.000Z INFO  msg {"i":4}`,
	}, got)

	out, err = run(t, "tail", "-n", "1", "--raw", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `{"name":"cli"`))

	_, err = run(t, "tail", "-n", "0", path)
	assert.Error(t, err)
}

func TestStatsCommand(t *testing.T) {
	path := writeSample(t, 7)
	info, err := os.Stat(path)
	require.NoError(t, err)

	out, err := run(t, "stats", "--json", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"lines":7`)
	assert.Contains(t, out, `"size":`+strconv.FormatInt(info.Size(), 10))
}

func readExport(t *testing.T, path, compression string) []byte {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r, err := util.NewDecompressReader(f, compression)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return data
}

func TestExportCommandRoundTrip(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("BOUNDLOG_EXPORT_COMPRESSION", "")
	path := writeSample(t, 20)
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	for _, compression := range []string{"gzip", "lz4", "none"} {
		t.Run(compression, func(t *testing.T) {
			out, err := run(t, "export", "--compression", compression, path)
			require.NoError(t, err)
			dst := strings.TrimSpace(out)

			assert.Equal(t, original, readExport(t, dst, compression))
		})
	}
}

func TestExportRejectsBadInput(t *testing.T) {
	path := writeSample(t, 1)

	_, err := run(t, "export", "--compression", "snappy", path)
	assert.Error(t, err)

	_, err = run(t, "export", "--compression", "none", "-o", path, path)
	assert.Error(t, err)
}

func TestExportCompressionFromConfig(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("BOUNDLOG_EXPORT_COMPRESSION", "")
	path := writeSample(t, 10)
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	cfgPath := filepath.Join(t.TempDir(), "boundlog.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("export_compression: lz4\n"), 0o644))

	out, err := run(t, "export", "--config", cfgPath, path)
	require.NoError(t, err)
	dst := strings.TrimSpace(out)
	assert.Equal(t, path+".lz4", dst)
	assert.Equal(t, original, readExport(t, dst, "lz4"))

	// an explicit flag beats the file
	out, err = run(t, "export", "--config", cfgPath, "--compression", "gzip", path)
	require.NoError(t, err)
	assert.Equal(t, path+".gz", strings.TrimSpace(out))

	t.Setenv("BOUNDLOG_EXPORT_COMPRESSION", "none")
	out, err = run(t, "export", path)
	require.NoError(t, err)
	dst = strings.TrimSpace(out)
	assert.Equal(t, path+".export", dst)
	assert.Equal(t, original, readExport(t, dst, "none"))
}

func TestExportDefaultsToGzip(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("BOUNDLOG_EXPORT_COMPRESSION", "")
	path := writeSample(t, 3)

	out, err := run(t, "export", path)
	require.NoError(t, err)
	assert.Equal(t, path+".gz", strings.TrimSpace(out))
}

func TestExportMissingConfigFails(t *testing.T) {
	path := writeSample(t, 1)
	_, err := run(t, "export", "--config", filepath.Join(t.TempDir(), "absent.yaml"), path)
	assert.Error(t, err)
}
