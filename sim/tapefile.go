package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"ladder/engine"
)

// EventRecord is the JSON form of one tape entry. Kind selects the event:
// "limit" and "market" build orders, "cancel" builds a cancel.
type EventRecord struct {
	Kind      string `json:"kind"`
	OrderID   uint64 `json:"orderId"`
	Side      string `json:"side,omitempty"`
	Price     int64  `json:"price,omitempty"`
	Quantity  int64  `json:"quantity,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// LoadTape reads a JSON array of event records from a file, preserving the
// file's order for equal timestamps.
func LoadTape(path string) ([]engine.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tape: %w", err)
	}
	var records []EventRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse tape: %w", err)
	}

	events := make([]engine.Event, 0, len(records))
	for i, rec := range records {
		ev, err := ParseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("tape entry %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// ParseRecord converts one record into an engine event.
func ParseRecord(rec EventRecord) (engine.Event, error) {
	switch strings.ToLower(rec.Kind) {
	case "cancel":
		return engine.Cancel{OrderID: rec.OrderID, Timestamp: rec.Timestamp}, nil
	case "limit", "market":
		side, err := parseSide(rec.Side)
		if err != nil {
			return nil, err
		}
		otype := engine.Limit
		if strings.ToLower(rec.Kind) == "market" {
			otype = engine.Market
		}
		return &engine.Order{
			ID:        rec.OrderID,
			Side:      side,
			Type:      otype,
			Price:     rec.Price,
			Quantity:  rec.Quantity,
			Timestamp: rec.Timestamp,
		}, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", rec.Kind)
	}
}

func parseSide(value string) (engine.Side, error) {
	switch strings.ToLower(value) {
	case "buy", "bid", "b":
		return engine.Buy, nil
	case "sell", "ask", "s":
		return engine.Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %q", value)
	}
}
