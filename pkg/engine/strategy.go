package engine

import (
	"github.com/TheodoreKrypton/pytrade/pkg/order"
)

// Strategy is the user-supplied trading logic driven by the engine. Hooks run
// to completion before the engine advances time; calling Run from within a
// hook is not supported.
type Strategy interface {
	// OnInit runs once before the first bar.
	OnInit(e *Engine) error
	// OnBar runs after each bar has been applied to the book and balance.
	OnBar(e *Engine) error
	// OnDeinit runs once after the series is exhausted.
	OnDeinit(e *Engine) error
	// OnEvents notifies the strategy of an automatic order transition
	// performed by the engine: an activation or a take-profit, stop-loss or
	// end-of-data close.
	OnEvents(e *Engine, ticket order.ID, reason order.Reason) error
}

// Recorder receives every closed order, typically to persist a trade journal.
type Recorder interface {
	RecordClose(o *order.Order) error
}
