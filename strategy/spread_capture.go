package strategy

import "ladder/engine"

// SpreadCapture maintains one paired bid/ask around the mid price and
// re-prices when the mid drifts past a tick threshold. Pairs are canceled
// once they outlive Lifetime clock units.
type SpreadCapture struct {
	Client         Client
	ThresholdTicks int64
	Lifetime       int64
	Quantity       int64
	Tick           int64

	pair *pairedOrders
}

type pairedOrders struct {
	buyID     uint64
	sellID    uint64
	anchorMid int64
	placedAt  int64
}

// NewSpreadCapture builds the strategy with the default tuning.
func NewSpreadCapture(client Client) *SpreadCapture {
	return &SpreadCapture{
		Client:         client,
		ThresholdTicks: 3,
		Lifetime:       30,
		Quantity:       1,
		Tick:           1,
	}
}

// OnEvent implements sim.Observer.
func (s *SpreadCapture) OnEvent(_ engine.Event, ts int64, _ []engine.Trade) {
	s.refreshPair(s.Client.Top(), ts)
}

func (s *SpreadCapture) refreshPair(top engine.TopOfBook, ts int64) {
	if top.Bid.Quantity == 0 || top.Ask.Quantity == 0 {
		s.cancelPair(ts)
		return
	}
	mid := midPrice(top)
	threshold := s.ThresholdTicks * s.Tick

	if s.pair != nil {
		if ts-s.pair.placedAt > s.Lifetime {
			s.cancelPair(ts)
		} else if absInt64(mid-s.pair.anchorMid) >= threshold {
			s.cancelPair(ts)
		}
	}
	if s.pair != nil {
		return
	}

	buyPrice := top.Bid.Price
	if mid-s.Tick > 0 {
		buyPrice = mid - s.Tick
	}
	sellPrice := top.Ask.Price
	if sellPrice <= buyPrice {
		sellPrice = buyPrice + s.Tick
	}

	buyID := s.Client.NextID()
	sellID := s.Client.NextID()
	next := ts + 1

	s.Client.Submit(engine.Order{ID: buyID, Side: engine.Buy, Type: engine.Limit, Price: buyPrice, Quantity: s.Quantity, Timestamp: next})
	s.Client.Submit(engine.Order{ID: sellID, Side: engine.Sell, Type: engine.Limit, Price: sellPrice, Quantity: s.Quantity, Timestamp: next})

	s.pair = &pairedOrders{buyID: buyID, sellID: sellID, anchorMid: mid, placedAt: ts}
}

func (s *SpreadCapture) cancelPair(ts int64) {
	if s.pair == nil {
		return
	}
	s.Client.Cancel(s.pair.buyID, ts+1)
	s.Client.Cancel(s.pair.sellID, ts+1)
	s.pair = nil
}
