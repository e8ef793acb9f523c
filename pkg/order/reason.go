package order

// Reason records why an order was opened or closed.
type Reason uint8

const (
	OpenAtMarket Reason = iota
	OpenAtBuyStop
	OpenAtBuyLimit
	OpenAtSellStop
	OpenAtSellLimit
	CloseAtMarket
	CloseAtTakeProfit
	CloseAtStopLoss
	CloseAtEndOfData
)

func (r Reason) String() string {
	switch r {
	case OpenAtMarket:
		return "open-at-market"
	case OpenAtBuyStop:
		return "open-at-buy-stop"
	case OpenAtBuyLimit:
		return "open-at-buy-limit"
	case OpenAtSellStop:
		return "open-at-sell-stop"
	case OpenAtSellLimit:
		return "open-at-sell-limit"
	case CloseAtMarket:
		return "close-at-market"
	case CloseAtTakeProfit:
		return "close-at-take-profit"
	case CloseAtStopLoss:
		return "close-at-stop-loss"
	case CloseAtEndOfData:
		return "close-at-end-of-data"
	default:
		return "unknown"
	}
}
