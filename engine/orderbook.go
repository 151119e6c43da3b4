package engine

import (
	"errors"
	"fmt"
)

// Per-order outcomes. These are local to the order that produced them and
// never abort processing of subsequent events.
var (
	// ErrDepthExceeded reports a limit order whose price sorts beyond the
	// book's fixed depth. The order is dropped, not rested.
	ErrDepthExceeded = errors.New("price beyond book depth")

	// ErrOrderNotFound reports a cancel for an id with no resting quantity.
	ErrOrderNotFound = errors.New("order not found")
)

// slot locates a resting order inside a ladder.
type slot struct {
	side  Side
	level int
}

// OrderBook maintains bids and asks for a single instrument using
// price-time priority. Each side is a fixed-depth sorted ladder; an id index
// maps resting order ids to their slot for O(1) cancel lookup. The book is
// not safe for concurrent use: keep a single mutator per instrument so
// events apply in their queue order.
type OrderBook struct {
	cfg   Config
	bids  *ladder
	asks  *ladder
	index map[uint64]slot
}

// NewOrderBook validates the configuration and builds an empty book.
func NewOrderBook(cfg Config) (*OrderBook, error) {
	if cfg.Depth <= 0 {
		return nil, fmt.Errorf("book depth must be positive, got %d", cfg.Depth)
	}
	return &OrderBook{
		cfg:   cfg,
		bids:  newLadder(cfg.Depth, true),
		asks:  newLadder(cfg.Depth, false),
		index: make(map[uint64]slot),
	}, nil
}

func (b *OrderBook) side(s Side) *ladder {
	if s == Buy {
		return b.bids
	}
	return b.asks
}

// InsertLimit rests an order on its side of the book without matching.
// Orders whose price sorts beyond the configured depth are rejected with
// ErrDepthExceeded and leave the book untouched. Inserting into a full
// ladder evicts the order at the tail.
func (b *OrderBook) InsertLimit(o *Order) error {
	l := b.side(o.Side)
	pos := l.insertPos(o.Price)
	if pos >= b.cfg.Depth {
		return fmt.Errorf("order %d at %d: %w", o.ID, o.Price, ErrDepthExceeded)
	}

	last := b.cfg.Depth - 1
	var evicted *Order
	if l.qtys[last] > 0 {
		evicted = &Order{
			ID:       l.ids[last],
			Side:     o.Side,
			Type:     Limit,
			Price:    l.prices[last],
			Quantity: l.qtys[last],
		}
		delete(b.index, evicted.ID)
	}

	l.insertAt(pos, o.ID, o.Price, o.Quantity)
	b.reindex(o.Side, pos)

	if evicted != nil && b.cfg.OnEvict != nil {
		b.cfg.OnEvict(*evicted)
	}
	return nil
}

// Cancel removes a resting order. The ladder is compacted so deeper levels
// stay reachable by the matching loop. Returns false when the id is
// unknown, already filled, or already canceled.
func (b *OrderBook) Cancel(id uint64) bool {
	sl, ok := b.index[id]
	if !ok {
		return false
	}
	delete(b.index, id)
	b.side(sl.side).removeAt(sl.level)
	b.reindex(sl.side, sl.level)
	return true
}

// reindex repairs id index entries from level `from` to the end of the
// occupied region after a shift.
func (b *OrderBook) reindex(s Side, from int) {
	l := b.side(s)
	for i := from; i < len(l.qtys) && l.qtys[i] > 0; i++ {
		b.index[l.ids[i]] = slot{side: s, level: i}
	}
}

// Best returns the top of one side. A zero quantity means no resting
// liquidity there.
func (b *OrderBook) Best(s Side) (price, qty int64) {
	return b.side(s).best()
}

// Snapshot copies the best level of each side.
func (b *OrderBook) Snapshot() TopOfBook {
	var top TopOfBook
	if b.bids.qtys[0] > 0 {
		top.Bid = Quote{OrderID: b.bids.ids[0], Price: b.bids.prices[0], Quantity: b.bids.qtys[0]}
	}
	if b.asks.qtys[0] > 0 {
		top.Ask = Quote{OrderID: b.asks.ids[0], Price: b.asks.prices[0], Quantity: b.asks.qtys[0]}
	}
	return top
}

// Depth returns the per-side level capacity fixed at construction.
func (b *OrderBook) Depth() int { return b.cfg.Depth }

// RestingCount reports how many orders rest across both sides.
func (b *OrderBook) RestingCount() int { return len(b.index) }

func validate(o *Order) error {
	if o.Quantity <= 0 {
		return fmt.Errorf("order %d: quantity must be positive, got %d", o.ID, o.Quantity)
	}
	if o.Type == Limit && o.Price <= 0 {
		return fmt.Errorf("order %d: limit price must be positive, got %d", o.ID, o.Price)
	}
	return nil
}
