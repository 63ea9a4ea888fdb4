package meminfo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMemInfo = `MemTotal:        8000000 kB
MemFree:         1000000 kB
MemAvailable:    3000000 kB
Buffers:          500000 kB
Cached:          2000000 kB
SwapCached:            0 kB
Active:          4000000 kB
Slab:             300000 kB
`

func TestParse(t *testing.T) {
	t.Parallel()

	snapshot, err := Parse(strings.NewReader(sampleMemInfo))
	require.NoError(t, err)

	assert.True(t, snapshot.Complete())
	assert.Equal(t, uint64(8000000), snapshot.TotalKB)
	assert.Equal(t, uint64(1000000), snapshot.FreeKB)
	assert.Equal(t, uint64(2000000), snapshot.CachedKB)
	assert.Equal(t, uint64(500000), snapshot.BuffersKB)
	require.NotNil(t, snapshot.AvailableKB)
	assert.Equal(t, uint64(3000000), *snapshot.AvailableKB)
}

func TestParseMissingMandatory(t *testing.T) {
	t.Parallel()

	snapshot, err := Parse(strings.NewReader("MemFree: 1000 kB\nCached: 2000 kB\n"))
	require.NoError(t, err)
	assert.False(t, snapshot.Complete())

	snapshot, err = Parse(strings.NewReader("MemTotal: 8000 kB\nMemFree: 1000 kB\n"))
	require.NoError(t, err)
	assert.False(t, snapshot.Complete())
}

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	snapshot, err := Parse(strings.NewReader("MemTotal: 8000 kB\nMemFree: 1000 kB\nCached: 2000 kB\n"))
	require.NoError(t, err)
	assert.True(t, snapshot.Complete())
	assert.Equal(t, uint64(0), snapshot.BuffersKB)
	assert.Nil(t, snapshot.AvailableKB)
}

func TestParseGarbageLines(t *testing.T) {
	t.Parallel()

	snapshot, err := Parse(strings.NewReader("\nMemTotal: abc kB\nMemFree: 1000 kB\nnot a meminfo line\n"))
	require.NoError(t, err)
	assert.False(t, snapshot.Complete())
	assert.Equal(t, uint64(1000), snapshot.FreeKB)
}

func TestReader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "meminfo")
	require.NoError(t, os.WriteFile(path, []byte(sampleMemInfo), 0o644))

	reader := &Reader{Location: path}
	assert.Equal(t, path, reader.Path())

	snapshot, err := reader.Read()
	require.NoError(t, err)
	assert.Equal(t, uint64(8000000), snapshot.TotalKB)
}

func TestReaderUnreadable(t *testing.T) {
	t.Parallel()

	reader := &Reader{Location: filepath.Join(t.TempDir(), "nope")}
	_, err := reader.Read()
	assert.Error(t, err)
}

func TestReaderDefaultPath(t *testing.T) {
	t.Parallel()

	reader := &Reader{}
	assert.Equal(t, DefaultLocation, reader.Path())
}
