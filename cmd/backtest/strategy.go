package main

import (
	"go.uber.org/zap"

	"github.com/TheodoreKrypton/pytrade/pkg/engine"
	"github.com/TheodoreKrypton/pytrade/pkg/order"
	"github.com/TheodoreKrypton/pytrade/pkg/utility/fixed"
)

// smaCross is a minimal demonstration strategy: long while the fast moving
// average of closes is above the slow one, flat otherwise.
type smaCross struct {
	logger *zap.Logger

	fastPeriod int
	slowPeriod int
	lot        fixed.Point

	ticket   order.ID
	wasAbove bool
}

func newSmaCross(logger *zap.Logger, fastPeriod, slowPeriod int, lot fixed.Point) *smaCross {
	return &smaCross{
		logger:     logger,
		fastPeriod: fastPeriod,
		slowPeriod: slowPeriod,
		lot:        lot,
	}
}

func (s *smaCross) OnInit(*engine.Engine) error {
	s.logger.Info("strategy initialized",
		zap.Int("fast_period", s.fastPeriod),
		zap.Int("slow_period", s.slowPeriod))
	return nil
}

func (s *smaCross) OnBar(e *engine.Engine) error {
	if e.CurrentTime()+1 < s.slowPeriod {
		return nil
	}

	fast, err := s.average(e, s.fastPeriod)
	if err != nil {
		return err
	}
	slow, err := s.average(e, s.slowPeriod)
	if err != nil {
		return err
	}

	above := fast.Gt(slow)
	defer func() {
		s.wasAbove = above
	}()

	if above && !s.wasAbove && s.ticket == 0 {
		ticket, err := e.OrderSend(order.Buy, fixed.Zero, s.lot)
		if err != nil {
			return err
		}
		s.ticket = ticket
		s.logger.Info("opened long",
			zap.Int64("ticket", int64(ticket)),
			zap.String("price", e.MarketPrice().String()))
	} else if !above && s.wasAbove && s.ticket != 0 {
		if err := e.OrderClose(s.ticket); err != nil {
			return err
		}
		s.logger.Info("closed long",
			zap.Int64("ticket", int64(s.ticket)),
			zap.String("price", e.MarketPrice().String()))
		s.ticket = 0
	}
	return nil
}

func (s *smaCross) OnDeinit(e *engine.Engine) error {
	s.logger.Info("strategy done", zap.Int("orders_left", e.OrdersTotal()))
	return nil
}

func (s *smaCross) OnEvents(_ *engine.Engine, ticket order.ID, reason order.Reason) error {
	s.logger.Info("order event",
		zap.Int64("ticket", int64(ticket)),
		zap.String("reason", reason.String()))
	if ticket == s.ticket && reason != order.OpenAtBuyStop && reason != order.OpenAtBuyLimit {
		s.ticket = 0
	}
	return nil
}

func (s *smaCross) average(e *engine.Engine, period int) (fixed.Point, error) {
	sum := fixed.Zero
	for shift := 0; shift < period; shift++ {
		c, err := e.Close(shift)
		if err != nil {
			return fixed.Zero, err
		}
		sum = sum.Add(c)
	}
	return sum.DivInt(period), nil
}
