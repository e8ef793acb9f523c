package engine

import (
	"github.com/TheodoreKrypton/pytrade/pkg/utility/fixed"
)

type Option func(*Engine)

// WithPoint sets the minimum price increment used for stop distance checks.
func WithPoint(point fixed.Point) Option {
	return func(e *Engine) {
		e.point = point
	}
}

// WithNearestStopDistance sets the minimum distance, in points, between the
// market or resting price and a stop loss.
func WithNearestStopDistance(points int) Option {
	return func(e *Engine) {
		e.nearestSL = points
	}
}

// WithLeverage sets the account leverage. Reserved for margin checks.
func WithLeverage(leverage fixed.Point) Option {
	return func(e *Engine) {
		e.leverage = leverage
	}
}

// WithCloseAtEnd force-closes every order still active when the series is
// exhausted, at the last price, with reason CloseAtEndOfData.
func WithCloseAtEnd() Option {
	return func(e *Engine) {
		e.closeAtEnd = true
	}
}

// WithRecorder attaches a recorder receiving every closed order.
func WithRecorder(recorder Recorder) Option {
	return func(e *Engine) {
		e.recorder = recorder
	}
}
