package strategy

import "ladder/engine"

// midPrice returns the mid of the top of book, falling back to the touch
// when only one side has liquidity.
func midPrice(top engine.TopOfBook) int64 {
	bid := int64(0)
	ask := int64(0)
	if top.Bid.Quantity > 0 {
		bid = top.Bid.Price
	}
	if top.Ask.Quantity > 0 {
		ask = top.Ask.Price
	}

	switch {
	case bid > 0 && ask > 0:
		return (bid + ask) / 2
	case bid > 0:
		return bid
	case ask > 0:
		return ask
	default:
		return 0
	}
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
