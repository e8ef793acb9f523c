package series

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBinaryBars(t *testing.T, bars [][4]float64) string {
	t.Helper()

	buf := new(bytes.Buffer)
	for i, bar := range bars {
		require.NoError(t, binary.Write(buf, binary.LittleEndian, int64(i)))
		for _, v := range bar {
			require.NoError(t, binary.Write(buf, binary.LittleEndian, v))
		}
	}

	path := filepath.Join(t.TempDir(), "bars.bin")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestBinaryReader(t *testing.T) {
	path := writeBinaryBars(t, [][4]float64{
		{1.10, 1.15, 1.05, 1.12},
		{1.12, 1.20, 1.10, 1.18},
	})

	r := NewBinaryReader(path)
	require.NoError(t, r.Open())
	defer r.Close()

	count, err := r.EntryCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	m, err := r.ReadAll()
	require.NoError(t, err)
	require.Equal(t, 2, m.TotalRows())

	bar, err := m.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "1.12", bar.Open.String())
	assert.Equal(t, "1.2", bar.High.String())
	assert.Equal(t, "1.1", bar.Low.String())
	assert.Equal(t, "1.18", bar.Close.String())
}

func TestBinaryReader_TruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, binaryRecordSize+1), 0o644))

	r := NewBinaryReader(path)
	require.NoError(t, r.Open())
	defer r.Close()

	_, err := r.EntryCount()
	assert.Error(t, err)
}
