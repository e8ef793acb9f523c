package series

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/exp/mmap"

	"github.com/TheodoreKrypton/pytrade/pkg/utility/fixed"
)

// binaryRecordSize is the fixed on-disk layout of one bar: int64 timestamp
// followed by four little-endian float64 OHLC values.
const binaryRecordSize = 40

// BinaryReader reads fixed-size bar records from an mmap'd file.
type BinaryReader struct {
	dataSourceName string
	reader         *mmap.ReaderAt
}

func NewBinaryReader(dataSourceName string) *BinaryReader {
	return &BinaryReader{
		dataSourceName: dataSourceName,
	}
}

func (r *BinaryReader) Open() error {
	var err error
	r.reader, err = mmap.Open(r.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to open data source %q: %w", r.dataSourceName, err)
	}
	return nil
}

func (r *BinaryReader) Close() {
	_ = r.reader.Close()
}

// Read decodes the record at the given index.
func (r *BinaryReader) Read(index int64, bar *Bar) error {
	buffer := make([]byte, binaryRecordSize)

	n, err := r.reader.ReadAt(buffer, index*binaryRecordSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("unable to read: %w", err)
	}
	if n < binaryRecordSize {
		return io.EOF
	}

	// Timestamp at offset 0 is carried in the file but not part of the bar.
	bar.Open = fixed.FromFloat64(math.Float64frombits(binary.LittleEndian.Uint64(buffer[8:])))
	bar.High = fixed.FromFloat64(math.Float64frombits(binary.LittleEndian.Uint64(buffer[16:])))
	bar.Low = fixed.FromFloat64(math.Float64frombits(binary.LittleEndian.Uint64(buffer[24:])))
	bar.Close = fixed.FromFloat64(math.Float64frombits(binary.LittleEndian.Uint64(buffer[32:])))
	return nil
}

// EntryCount derives the record count from the file size.
func (r *BinaryReader) EntryCount() (int64, error) {
	fileInfo, err := os.Stat(r.dataSourceName)
	if err != nil {
		return 0, fmt.Errorf("unable to get data source %q stats: %w", r.dataSourceName, err)
	}
	totalSize := fileInfo.Size()
	if totalSize%binaryRecordSize != 0 {
		return 0, fmt.Errorf("file size is not a multiple of record size")
	}
	return totalSize / binaryRecordSize, nil
}

// ReadAll loads the whole file into an in-memory series.
func (r *BinaryReader) ReadAll() (*Memory, error) {
	count, err := r.EntryCount()
	if err != nil {
		return nil, err
	}
	bars := make([]Bar, count)
	for idx := int64(0); idx < count; idx++ {
		if err := r.Read(idx, &bars[idx]); err != nil {
			return nil, fmt.Errorf("record %d: %w", idx, err)
		}
	}
	return NewMemory(bars), nil
}
