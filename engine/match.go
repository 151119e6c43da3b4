package engine

// match runs the price-time priority crossing loop: trade against the best
// opposite level until the incoming order is exhausted or stops crossing.
// Consumed levels are compacted out immediately so the zero-quantity check
// on the next iteration is reliable.
func (b *OrderBook) match(o *Order) []Trade {
	var trades []Trade
	opp := b.side(o.Side.Opposite())
	for o.Quantity > 0 {
		bestPrice, bestQty := opp.best()
		if bestQty == 0 {
			break
		}
		if o.Side == Buy && o.Price < bestPrice {
			break
		}
		if o.Side == Sell && o.Price > bestPrice {
			break
		}

		traded := min(o.Quantity, bestQty)
		// The maker id must be read before the level is consumed.
		trades = append(trades, Trade{
			MakerID:   opp.ids[0],
			TakerID:   o.ID,
			Price:     bestPrice,
			Quantity:  traded,
			Timestamp: o.Timestamp,
		})
		o.Quantity -= traded
		opp.qtys[0] -= traded

		if opp.qtys[0] == 0 {
			delete(b.index, opp.ids[0])
			opp.removeAt(0)
			b.reindex(o.Side.Opposite(), 0)
		}
	}
	return trades
}

// SubmitLimit crosses the order against the opposite side, then rests any
// remainder. Trades already executed remain valid even when the remainder
// is rejected for depth.
func (b *OrderBook) SubmitLimit(o *Order) ([]Trade, error) {
	if err := validate(o); err != nil {
		return nil, err
	}
	trades := b.match(o)
	if o.Quantity > 0 {
		if err := b.InsertLimit(o); err != nil {
			return trades, err
		}
	}
	return trades, nil
}

// SubmitMarket crosses at any price. Whatever cannot fill against the
// available opposite depth is discarded; market orders never rest.
func (b *OrderBook) SubmitMarket(o *Order) ([]Trade, error) {
	if err := validate(o); err != nil {
		return nil, err
	}
	if o.Side == Buy {
		o.Price = maxPrice
	} else {
		o.Price = minPrice
	}
	return b.match(o), nil
}

func min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
