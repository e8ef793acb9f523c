package order

// Operation is the kind of trading instruction an order carries. Buy and Sell
// execute immediately at market, the remaining four rest at a trigger price
// until activation converts them into their market counterpart.
type Operation uint8

const (
	Buy Operation = iota
	Sell
	BuyStop
	BuyLimit
	SellStop
	SellLimit
)

func (op Operation) IsMarket() bool {
	return op == Buy || op == Sell
}

func (op Operation) IsBuy() bool {
	return op == Buy || op == BuyStop || op == BuyLimit
}

// ActivatesOnRise reports whether a pending order of this kind triggers when
// price rises through its resting price.
func (op Operation) ActivatesOnRise() bool {
	return op == BuyStop || op == SellLimit
}

// ActivatesOnFall reports whether a pending order of this kind triggers when
// price falls through its resting price.
func (op Operation) ActivatesOnFall() bool {
	return op == BuyLimit || op == SellStop
}

func (op Operation) String() string {
	switch op {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	case BuyStop:
		return "buy-stop"
	case BuyLimit:
		return "buy-limit"
	case SellStop:
		return "sell-stop"
	case SellLimit:
		return "sell-limit"
	default:
		return "unknown"
	}
}
