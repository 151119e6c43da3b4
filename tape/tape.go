package tape

import (
	"ladder/engine"
)

// Sink receives executed trades in tape order.
type Sink interface {
	Append(engine.Trade) error
}

// Recorder collects the trade tape and fans each execution out to its
// sinks. Sink failures are collected, not propagated: a broken sink must
// never stall the event stream.
type Recorder struct {
	trades []engine.Trade
	sinks  []Sink
	errs   []error
}

// NewRecorder builds a recorder over zero or more sinks.
func NewRecorder(sinks ...Sink) *Recorder {
	return &Recorder{sinks: sinks}
}

// Record appends one trade and forwards it to every sink.
func (r *Recorder) Record(tr engine.Trade) {
	r.trades = append(r.trades, tr)
	for _, sink := range r.sinks {
		if err := sink.Append(tr); err != nil {
			r.errs = append(r.errs, err)
		}
	}
}

// Trades returns the collected tape in execution order.
func (r *Recorder) Trades() []engine.Trade { return r.trades }

// SinkErrors returns failures sinks reported while recording.
func (r *Recorder) SinkErrors() []error { return r.errs }

// OnEvent lets a Recorder ride a simulation as an observer: any trades that
// appeared on the tape since the last event are recorded.
func (r *Recorder) OnEvent(_ engine.Event, _ int64, trades []engine.Trade) {
	for len(r.trades) < len(trades) {
		r.Record(trades[len(r.trades)])
	}
}
