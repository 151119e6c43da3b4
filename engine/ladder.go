package engine

// ladder is one side of the book: parallel fixed-depth arrays ordered
// best-first, bids descending and asks ascending. Slot 0 is always the best
// level. Occupied slots are contiguous from the front; every removal shifts
// deeper levels forward so an empty best slot genuinely means an empty side.
type ladder struct {
	bid    bool
	prices []int64
	qtys   []int64
	ids    []uint64
}

func newLadder(depth int, bid bool) *ladder {
	l := &ladder{
		bid:    bid,
		prices: make([]int64, depth),
		qtys:   make([]int64, depth),
		ids:    make([]uint64, depth),
	}
	for i := range l.prices {
		l.prices[i] = l.sentinel()
	}
	return l
}

func (l *ladder) sentinel() int64 {
	if l.bid {
		return minPrice
	}
	return maxPrice
}

// insertPos returns the slot a price sorts into. Equal prices land behind
// earlier arrivals, which keeps FIFO time priority across adjacent slots.
// A result of len(l.prices) means the price is too far from the best.
func (l *ladder) insertPos(price int64) int {
	pos := 0
	for pos < len(l.prices) {
		if l.bid && price > l.prices[pos] {
			break
		}
		if !l.bid && price < l.prices[pos] {
			break
		}
		pos++
	}
	return pos
}

// insertAt shifts [pos, depth-1) toward the tail, discarding the last slot,
// and writes the order at pos.
func (l *ladder) insertAt(pos int, id uint64, price, qty int64) {
	last := len(l.prices) - 1
	copy(l.prices[pos+1:], l.prices[pos:last])
	copy(l.qtys[pos+1:], l.qtys[pos:last])
	copy(l.ids[pos+1:], l.ids[pos:last])
	l.prices[pos] = price
	l.qtys[pos] = qty
	l.ids[pos] = id
}

// removeAt shifts everything behind pos forward by one and resets the tail
// slot, restoring the density invariant.
func (l *ladder) removeAt(pos int) {
	last := len(l.prices) - 1
	copy(l.prices[pos:], l.prices[pos+1:])
	copy(l.qtys[pos:], l.qtys[pos+1:])
	copy(l.ids[pos:], l.ids[pos+1:])
	l.prices[last] = l.sentinel()
	l.qtys[last] = 0
	l.ids[last] = 0
}

// best returns the top slot. Zero quantity means the side is empty.
func (l *ladder) best() (price, qty int64) {
	return l.prices[0], l.qtys[0]
}
