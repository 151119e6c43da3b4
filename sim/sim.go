package sim

import (
	"ladder/engine"
)

// Observer is notified synchronously after each event's effects are applied,
// with the event's own timestamp and the trade tape collected so far.
// Observers are advisory: the engine never depends on them for correctness.
type Observer interface {
	OnEvent(ev engine.Event, ts int64, trades []engine.Trade)
}

// Rejection records a per-event outcome that produced no trades: a depth or
// validation rejection, or a cancel for an unknown id. Rejections never halt
// the run.
type Rejection struct {
	OrderID   uint64
	Timestamp int64
	Err       error
}

// Simulator drives a single book through a timestamped event tape on a
// virtual clock. Events apply in strictly non-decreasing timestamp order
// and, within a timestamp, in push order. Everything runs on the caller's
// goroutine; determinism comes from the single-mutator rule.
type Simulator struct {
	book      *engine.OrderBook
	queue     *engine.EventQueue
	observers []Observer
	trades    []engine.Trade
	rejects   []Rejection
	now       int64
}

// New builds a simulator around a fresh book.
func New(cfg engine.Config) (*Simulator, error) {
	book, err := engine.NewOrderBook(cfg)
	if err != nil {
		return nil, err
	}
	return &Simulator{book: book, queue: engine.NewEventQueue()}, nil
}

// Observe registers an observer. Observers run in registration order.
func (s *Simulator) Observe(obs Observer) {
	s.observers = append(s.observers, obs)
}

// Push schedules an event at its own timestamp. Safe to call from observer
// callbacks; events due at the current clock are applied within the same
// step.
func (s *Simulator) Push(ev engine.Event) {
	s.queue.Push(ev)
}

// Book exposes the underlying order book. Mutating it outside the event
// stream breaks the ordering guarantee.
func (s *Simulator) Book() *engine.OrderBook {
	return s.book
}

// Now returns the virtual clock.
func (s *Simulator) Now() int64 { return s.now }

// Pending reports the number of queued events.
func (s *Simulator) Pending() int { return s.queue.Len() }

// Step drains every event due at the current clock, applies each, then
// advances the clock one unit. It returns the trades this step produced.
func (s *Simulator) Step() []engine.Trade {
	start := len(s.trades)
	for ev, ok := s.queue.PopNext(s.now); ok; ev, ok = s.queue.PopNext(s.now) {
		s.apply(ev)
	}
	s.now++
	return s.trades[start:]
}

// Run steps until the queue is empty and returns the complete trade tape.
func (s *Simulator) Run() []engine.Trade {
	for s.queue.Len() > 0 {
		s.Step()
	}
	return s.trades
}

// Trades returns the tape collected so far, in execution order.
func (s *Simulator) Trades() []engine.Trade { return s.trades }

// Rejections returns the per-event failures recorded so far.
func (s *Simulator) Rejections() []Rejection { return s.rejects }

func (s *Simulator) apply(ev engine.Event) {
	switch e := ev.(type) {
	case *engine.Order:
		var trades []engine.Trade
		var err error
		if e.Type == engine.Market {
			trades, err = s.book.SubmitMarket(e)
		} else {
			trades, err = s.book.SubmitLimit(e)
		}
		s.trades = append(s.trades, trades...)
		if err != nil {
			s.rejects = append(s.rejects, Rejection{OrderID: e.ID, Timestamp: e.Timestamp, Err: err})
		}
	case engine.Cancel:
		if !s.book.Cancel(e.OrderID) {
			s.rejects = append(s.rejects, Rejection{OrderID: e.OrderID, Timestamp: e.Timestamp, Err: engine.ErrOrderNotFound})
		}
	}

	for _, obs := range s.observers {
		obs.OnEvent(ev, ev.Time(), s.trades)
	}
}
