// Package series provides the historical price data consumed by the
// simulation engine: an immutable, index-addressed sequence of OHLC bars with
// loaders for CSV, DuckDB and mmap'd binary sources.
package series

import (
	"errors"
	"fmt"

	"github.com/TheodoreKrypton/pytrade/pkg/utility/fixed"
)

// ErrNoPrice is returned when a bar is requested at a negative or
// out-of-range time shift. Lookups never clamp.
var ErrNoPrice = errors.New("no price available")

// Bar is one OHLC observation for a discrete time step.
type Bar struct {
	Open  fixed.Point
	High  fixed.Point
	Low   fixed.Point
	Close fixed.Point
}

// Provider exposes indexed bar lookups over an ordered series, immutable
// after load.
type Provider interface {
	// Get returns the bar at the given non-negative time offset.
	Get(shift int) (Bar, error)
	// TotalRows is the number of bars in the series.
	TotalRows() int
}

// Memory is an in-memory Provider backed by a bar slice.
type Memory struct {
	bars []Bar
}

func NewMemory(bars []Bar) *Memory {
	return &Memory{bars: bars}
}

func (m *Memory) Get(shift int) (Bar, error) {
	if shift < 0 || shift >= len(m.bars) {
		return Bar{}, fmt.Errorf("no price on time %d: %w", shift, ErrNoPrice)
	}
	return m.bars[shift], nil
}

func (m *Memory) TotalRows() int {
	return len(m.bars)
}
