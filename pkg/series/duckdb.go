package series

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/TheodoreKrypton/pytrade/pkg/utility/fixed"
)

// DuckDBReader loads bar series from a DuckDB database. The table is expected
// to carry open, high, low and close columns and a ts column to order by.
type DuckDBReader struct {
	dataSourceName string
	db             *sql.DB
}

func NewDuckDBReader(dataSourceName string) *DuckDBReader {
	return &DuckDBReader{
		dataSourceName: dataSourceName,
	}
}

func (r *DuckDBReader) Connect() error {
	db, err := sql.Open("duckdb", r.dataSourceName)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	r.db = db
	return nil
}

func (r *DuckDBReader) Close() {
	_ = r.db.Close()
}

// LoadBars streams the bars of the given table in time order.
func (r *DuckDBReader) LoadBars(ctx context.Context, table string, handler func(bar Bar) error) error {

	query := fmt.Sprintf(`SELECT open, high, low, close FROM %s ORDER BY ts`, table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("error preparing query: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var o, h, l, c float64
		if err := rows.Scan(&o, &h, &l, &c); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		bar := Bar{
			Open:  fixed.FromFloat64(o),
			High:  fixed.FromFloat64(h),
			Low:   fixed.FromFloat64(l),
			Close: fixed.FromFloat64(c),
		}
		if err := handler(bar); err != nil {
			return fmt.Errorf("error processing bar: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error scanning rows: %w", err)
	}
	return nil
}

// ReadAll collects the whole table into an in-memory series.
func (r *DuckDBReader) ReadAll(ctx context.Context, table string) (*Memory, error) {
	var bars []Bar
	if err := r.LoadBars(ctx, table, func(bar Bar) error {
		bars = append(bars, bar)
		return nil
	}); err != nil {
		return nil, err
	}
	return NewMemory(bars), nil
}
