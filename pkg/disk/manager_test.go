package disk_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/downfa11-org/boundlog/pkg/config"
	"github.com/downfa11-org/boundlog/pkg/disk"
	"github.com/downfa11-org/boundlog/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerGetReturnsSameLogFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{ProductName: "svc", MaxLines: 64, MaxBytes: 1 << 20, MaxLineBytes: 4096}
	m := disk.NewManager(cfg, func(error) {})
	defer m.CloseAll()

	path := filepath.Join(dir, "svc.log")
	lf, err := m.Get(path)
	require.NoError(t, err)
	require.NotNil(t, lf)

	again, err := m.Get(filepath.Join(dir, ".", "svc.log"))
	require.NoError(t, err)
	assert.Same(t, lf, again)

	other, err := m.Get(filepath.Join(dir, "other.log"))
	require.NoError(t, err)
	assert.NotSame(t, lf, other)
}

func TestManagerAppliesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svc.log")
	cfg := &config.Config{ProductName: "svc", MaxLines: 8, MaxBytes: 1 << 20, MaxLineBytes: 4096}
	m := disk.NewManager(cfg, func(error) {})
	defer m.CloseAll()

	lf, err := m.Get(path)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		lf.WriteLog(types.LevelInfo, "x", nil, time.Now())
	}

	st := lf.Stats()
	assert.Equal(t, uint64(1), st.Truncations)
	assert.Equal(t, 8-3, st.Lines)

	lines := readLines(t, path)
	require.NotEmpty(t, lines)
	assert.Equal(t, "svc", lines[0].Name)
}

func TestManagerCloseAllAndDestroy(t *testing.T) {
	dir := t.TempDir()
	m := disk.NewManager(nil, func(error) {})

	a, err := m.Get(filepath.Join(dir, "a.log"))
	require.NoError(t, err)
	b, err := m.Get(filepath.Join(dir, "b.log"))
	require.NoError(t, err)
	a.WriteLog(types.LevelInfo, "a", nil, time.Now())
	b.WriteLog(types.LevelInfo, "b", nil, time.Now())

	require.NoError(t, m.Destroy(filepath.Join(dir, "b.log")))
	_, err = os.Stat(filepath.Join(dir, "b.log"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, m.CloseAll())
	assert.False(t, a.Stats().Opened)
	assert.Len(t, readLines(t, filepath.Join(dir, "a.log")), 1)

	// A closed path is opened afresh on the next Get.
	reopened, err := m.Get(filepath.Join(dir, "a.log"))
	require.NoError(t, err)
	assert.NotSame(t, a, reopened)
	assert.Equal(t, 1, reopened.Stats().Lines)
	require.NoError(t, m.CloseAll())
}
