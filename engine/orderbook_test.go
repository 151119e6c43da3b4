package engine

import (
	"errors"
	"testing"
)

func newTestBook(t *testing.T, depth int) *OrderBook {
	t.Helper()
	book, err := NewOrderBook(Config{Depth: depth})
	if err != nil {
		t.Fatalf("new book: %v", err)
	}
	return book
}

func TestLimitMatchAtMakerPrice(t *testing.T) {
	book := newTestBook(t, 10)

	if _, err := book.SubmitLimit(&Order{ID: 1, Side: Sell, Type: Limit, Price: 101, Quantity: 5, Timestamp: 1}); err != nil {
		t.Fatalf("rest ask: %v", err)
	}

	trades, err := book.SubmitLimit(&Order{ID: 2, Side: Buy, Type: Limit, Price: 102, Quantity: 3, Timestamp: 2})
	if err != nil {
		t.Fatalf("submit bid: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.Price != 101 || tr.Quantity != 3 {
		t.Fatalf("unexpected trade: %+v", tr)
	}
	if tr.MakerID != 1 || tr.TakerID != 2 {
		t.Fatalf("maker/taker ids wrong: %+v", tr)
	}
	if tr.Timestamp != 2 {
		t.Fatalf("trade should carry the taker timestamp, got %d", tr.Timestamp)
	}

	if _, qty := book.Best(Sell); qty != 2 {
		t.Fatalf("expected 2 left on the ask, got %d", qty)
	}
}

func TestPriceTimePriority(t *testing.T) {
	book := newTestBook(t, 10)

	_, _ = book.SubmitLimit(&Order{ID: 1, Side: Sell, Type: Limit, Price: 100, Quantity: 4, Timestamp: 1})
	_, _ = book.SubmitLimit(&Order{ID: 2, Side: Sell, Type: Limit, Price: 100, Quantity: 4, Timestamp: 2})

	trades, err := book.SubmitLimit(&Order{ID: 3, Side: Buy, Type: Limit, Price: 100, Quantity: 6, Timestamp: 3})
	if err != nil {
		t.Fatalf("submit crossing bid: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].MakerID != 1 || trades[0].Quantity != 4 {
		t.Fatalf("first-in order must fill first: %+v", trades[0])
	}
	if trades[1].MakerID != 2 || trades[1].Quantity != 2 {
		t.Fatalf("second order fills the remainder: %+v", trades[1])
	}

	if _, qty := book.Best(Sell); qty != 2 {
		t.Fatalf("expected 2 left from order 2, got %d", qty)
	}
}

func TestCancelCompactsLadder(t *testing.T) {
	book := newTestBook(t, 10)

	_, _ = book.SubmitLimit(&Order{ID: 1, Side: Sell, Type: Limit, Price: 100, Quantity: 5, Timestamp: 1})
	_, _ = book.SubmitLimit(&Order{ID: 2, Side: Sell, Type: Limit, Price: 101, Quantity: 5, Timestamp: 2})

	if !book.Cancel(1) {
		t.Fatal("cancel of resting order should report found")
	}
	if book.Cancel(1) {
		t.Fatal("second cancel of the same id should report not found")
	}

	// The deeper level must now be the best, not masked by a stale gap.
	price, qty := book.Best(Sell)
	if price != 101 || qty != 5 {
		t.Fatalf("expected best ask (101,5) after cancel, got (%d,%d)", price, qty)
	}

	trades, err := book.SubmitLimit(&Order{ID: 3, Side: Buy, Type: Limit, Price: 101, Quantity: 5, Timestamp: 3})
	if err != nil {
		t.Fatalf("submit bid: %v", err)
	}
	if len(trades) != 1 || trades[0].MakerID != 2 || trades[0].Price != 101 {
		t.Fatalf("matching should reach the surviving level: %+v", trades)
	}
}

func TestCancelUnknownOrder(t *testing.T) {
	book := newTestBook(t, 4)
	if book.Cancel(42) {
		t.Fatal("cancel of unknown id should report not found")
	}
}

func TestDepthRejection(t *testing.T) {
	book := newTestBook(t, 2)

	_, _ = book.SubmitLimit(&Order{ID: 1, Side: Buy, Type: Limit, Price: 10, Quantity: 1, Timestamp: 1})
	_, _ = book.SubmitLimit(&Order{ID: 2, Side: Buy, Type: Limit, Price: 9, Quantity: 1, Timestamp: 2})

	_, err := book.SubmitLimit(&Order{ID: 3, Side: Buy, Type: Limit, Price: 8, Quantity: 1, Timestamp: 3})
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}

	// The rejected order must leave the occupied levels unchanged.
	if price, qty := book.Best(Buy); price != 10 || qty != 1 {
		t.Fatalf("best bid disturbed by rejection: (%d,%d)", price, qty)
	}
	if book.RestingCount() != 2 {
		t.Fatalf("expected 2 resting orders, got %d", book.RestingCount())
	}
	if book.Cancel(3) {
		t.Fatal("rejected order must not be cancelable")
	}
}

func TestTailEviction(t *testing.T) {
	var evicted []Order
	book, err := NewOrderBook(Config{Depth: 2, OnEvict: func(o Order) { evicted = append(evicted, o) }})
	if err != nil {
		t.Fatalf("new book: %v", err)
	}

	_, _ = book.SubmitLimit(&Order{ID: 1, Side: Buy, Type: Limit, Price: 10, Quantity: 1, Timestamp: 1})
	_, _ = book.SubmitLimit(&Order{ID: 2, Side: Buy, Type: Limit, Price: 9, Quantity: 2, Timestamp: 2})
	_, _ = book.SubmitLimit(&Order{ID: 3, Side: Buy, Type: Limit, Price: 11, Quantity: 1, Timestamp: 3})

	if len(evicted) != 1 || evicted[0].ID != 2 || evicted[0].Price != 9 || evicted[0].Quantity != 2 {
		t.Fatalf("expected order 2 evicted from the tail, got %+v", evicted)
	}
	if book.Cancel(2) {
		t.Fatal("evicted order must not remain in the id index")
	}
	if price, _ := book.Best(Buy); price != 11 {
		t.Fatalf("expected new best bid 11, got %d", price)
	}
	if book.RestingCount() != 2 {
		t.Fatalf("expected 2 resting orders, got %d", book.RestingCount())
	}
}

func TestMarketOrderNeverRests(t *testing.T) {
	book := newTestBook(t, 10)

	_, _ = book.SubmitLimit(&Order{ID: 1, Side: Sell, Type: Limit, Price: 50, Quantity: 2, Timestamp: 1})

	mkt := &Order{ID: 2, Side: Buy, Type: Market, Quantity: 5, Timestamp: 2}
	trades, err := book.SubmitMarket(mkt)
	if err != nil {
		t.Fatalf("submit market: %v", err)
	}
	if len(trades) != 1 || trades[0].Price != 50 || trades[0].Quantity != 2 {
		t.Fatalf("unexpected market fill: %+v", trades)
	}
	if mkt.Quantity != 3 {
		t.Fatalf("expected 3 unfilled, got %d", mkt.Quantity)
	}

	// Neither side may retain any trace of the market order.
	if book.RestingCount() != 0 {
		t.Fatalf("expected empty book, got %d resting", book.RestingCount())
	}
	if _, qty := book.Best(Buy); qty != 0 {
		t.Fatal("market remainder must not rest as a bid")
	}
}

func TestMarketSellCrossesBestBid(t *testing.T) {
	book := newTestBook(t, 10)

	_, _ = book.SubmitLimit(&Order{ID: 1, Side: Buy, Type: Limit, Price: 99, Quantity: 5, Timestamp: 1})

	trades, err := book.SubmitMarket(&Order{ID: 2, Side: Sell, Type: Market, Quantity: 5, Timestamp: 2})
	if err != nil {
		t.Fatalf("submit market sell: %v", err)
	}
	if len(trades) != 1 || trades[0].Price != 99 || trades[0].Quantity != 5 {
		t.Fatalf("unexpected trade: %+v", trades)
	}
	if _, qty := book.Best(Buy); qty != 0 {
		t.Fatal("bid side should be empty after the market sell")
	}
}

func TestPartialFillThenRest(t *testing.T) {
	book := newTestBook(t, 10)

	_, _ = book.SubmitLimit(&Order{ID: 1, Side: Sell, Type: Limit, Price: 100, Quantity: 3, Timestamp: 1})

	trades, err := book.SubmitLimit(&Order{ID: 2, Side: Buy, Type: Limit, Price: 100, Quantity: 10, Timestamp: 2})
	if err != nil {
		t.Fatalf("submit bid: %v", err)
	}
	if len(trades) != 1 || trades[0].Quantity != 3 {
		t.Fatalf("unexpected trades: %+v", trades)
	}
	price, qty := book.Best(Buy)
	if price != 100 || qty != 7 {
		t.Fatalf("remainder should rest as (100,7), got (%d,%d)", price, qty)
	}
}

func TestInvalidOrders(t *testing.T) {
	book := newTestBook(t, 10)

	if _, err := book.SubmitLimit(&Order{ID: 1, Side: Buy, Type: Limit, Price: 10, Quantity: 0}); err == nil {
		t.Fatal("zero quantity must be rejected")
	}
	if _, err := book.SubmitLimit(&Order{ID: 2, Side: Buy, Type: Limit, Price: 0, Quantity: 1}); err == nil {
		t.Fatal("non-positive limit price must be rejected")
	}
	if _, err := book.SubmitMarket(&Order{ID: 3, Side: Sell, Type: Market, Quantity: -1}); err == nil {
		t.Fatal("negative market quantity must be rejected")
	}
	if book.RestingCount() != 0 {
		t.Fatalf("rejected orders must not rest, got %d", book.RestingCount())
	}
}

func TestNewOrderBookValidation(t *testing.T) {
	if _, err := NewOrderBook(Config{Depth: 0}); err == nil {
		t.Fatal("zero depth must fail construction")
	}
	if _, err := NewOrderBook(Config{Depth: -5}); err == nil {
		t.Fatal("negative depth must fail construction")
	}
}

func TestIndexSurvivesShifts(t *testing.T) {
	book := newTestBook(t, 8)

	// Fill a few levels, then insert ahead of them so every deeper entry
	// shifts by one.
	_, _ = book.SubmitLimit(&Order{ID: 1, Side: Sell, Type: Limit, Price: 103, Quantity: 1, Timestamp: 1})
	_, _ = book.SubmitLimit(&Order{ID: 2, Side: Sell, Type: Limit, Price: 104, Quantity: 1, Timestamp: 2})
	_, _ = book.SubmitLimit(&Order{ID: 3, Side: Sell, Type: Limit, Price: 102, Quantity: 1, Timestamp: 3})

	// Cancel the shifted orders; a stale index would miss or zero the
	// wrong level.
	if !book.Cancel(2) {
		t.Fatal("cancel of shifted order 2 failed")
	}
	if !book.Cancel(1) {
		t.Fatal("cancel of shifted order 1 failed")
	}
	price, qty := book.Best(Sell)
	if price != 102 || qty != 1 {
		t.Fatalf("expected only (102,1) left, got (%d,%d)", price, qty)
	}
}
