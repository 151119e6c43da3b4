package engine

import "math"

// Side represents the direction of an order.
type Side int

const (
	// Buy indicates a bid order.
	Buy Side = iota
	// Sell indicates an ask order.
	Sell
)

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// OrderType represents the execution style for an order.
type OrderType int

const (
	// Limit orders rest on the book until filled or canceled.
	Limit OrderType = iota
	// Market orders consume available liquidity immediately and never rest.
	Market
)

func (t OrderType) String() string {
	if t == Limit {
		return "limit"
	}
	return "market"
}

// Empty bid slots hold minPrice and empty ask slots maxPrice so insertion
// scans stop at the first free slot; market orders borrow the opposite
// extreme so they always cross.
const (
	maxPrice = math.MaxInt64
	minPrice = math.MinInt64
)

// Order describes a request to trade. Quantity is the unfilled remainder and
// only ever decreases; an order is filled when it reaches zero. Price is in
// ticks and is ignored on input for market orders.
type Order struct {
	ID        uint64
	Side      Side
	Type      OrderType
	Price     int64
	Quantity  int64
	Timestamp int64 // event time in virtual microseconds
}

// Time implements Event.
func (o *Order) Time() int64 { return o.Timestamp }

// Trade captures a completed execution. The price is always the resting
// (maker) order's price, the timestamp the taker's.
type Trade struct {
	MakerID   uint64
	TakerID   uint64
	Price     int64
	Quantity  int64
	Timestamp int64
}

// Cancel requests removal of a resting order.
type Cancel struct {
	OrderID   uint64
	Timestamp int64
}

// Time implements Event.
func (c Cancel) Time() int64 { return c.Timestamp }

// Quote is one occupied ladder slot.
type Quote struct {
	OrderID  uint64
	Price    int64
	Quantity int64
}

// TopOfBook holds the best level of each side. A zero quantity means that
// side has no resting liquidity.
type TopOfBook struct {
	Bid Quote
	Ask Quote
}

// Config controls book parameters. Depth is fixed at construction.
type Config struct {
	Depth int

	// OnEvict is called when an insertion pushes the order at the ladder
	// tail out of the book. Optional.
	OnEvict func(Order)
}
