package series

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/TheodoreKrypton/pytrade/pkg/utility/fixed"
)

// CSVLayout maps the columns of a CSV price file onto bar fields. BeginRow
// skips header rows, EndRow of zero reads to the end of the file.
type CSVLayout struct {
	OpenColumn  int `yaml:"open"`
	HighColumn  int `yaml:"high"`
	LowColumn   int `yaml:"low"`
	CloseColumn int `yaml:"close"`
	BeginRow    int `yaml:"begin_at_row"`
	EndRow      int `yaml:"end_at_row"`
}

// LoadCSV reads an OHLC series from a CSV file into memory.
func LoadCSV(path string, layout CSVLayout) (*Memory, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open data source %q: %w", path, err)
	}
	defer func() {
		_ = fp.Close()
	}()

	reader := csv.NewReader(fp)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read data source %q: %w", path, err)
	}

	end := len(records)
	if layout.EndRow > 0 && layout.EndRow < end {
		end = layout.EndRow
	}
	if layout.BeginRow > end {
		return nil, fmt.Errorf("begin row %d is past the end of %q", layout.BeginRow, path)
	}

	maxColumn := max(layout.OpenColumn, layout.HighColumn, layout.LowColumn, layout.CloseColumn)

	bars := make([]Bar, 0, end-layout.BeginRow)
	for row := layout.BeginRow; row < end; row++ {
		record := records[row]
		if len(record) <= maxColumn {
			return nil, fmt.Errorf("row %d of %q has %d columns, need %d", row, path, len(record), maxColumn+1)
		}
		bar, err := parseBar(record, layout)
		if err != nil {
			return nil, fmt.Errorf("row %d of %q: %w", row, path, err)
		}
		bars = append(bars, bar)
	}
	return NewMemory(bars), nil
}

func parseBar(record []string, layout CSVLayout) (Bar, error) {
	var bar Bar
	for _, field := range []struct {
		column int
		dst    *fixed.Point
	}{
		{layout.OpenColumn, &bar.Open},
		{layout.HighColumn, &bar.High},
		{layout.LowColumn, &bar.Low},
		{layout.CloseColumn, &bar.Close},
	} {
		v, err := strconv.ParseFloat(record[field.column], 64)
		if err != nil {
			return Bar{}, fmt.Errorf("column %d: %w", field.column, err)
		}
		*field.dst = fixed.FromFloat64(v)
	}
	return bar, nil
}
