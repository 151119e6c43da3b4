package tape

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"

	"ladder/engine"
)

// Journal persists the trade tape in a Pebble store. Records are keyed by a
// big-endian sequence number, so iteration replays trades in execution
// order. The journal holds the engine's output, not book state.
type Journal struct {
	db   *pebble.DB
	next uint64
}

// OpenJournal opens or creates a journal at dir, resuming the sequence
// after the last persisted record.
func OpenJournal(dir string) (*Journal, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{db: db}
	iter, err := db.NewIter(nil)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open journal iterator: %w", err)
	}
	if iter.Last() {
		j.next = binary.BigEndian.Uint64(iter.Key()) + 1
	}
	if err := iter.Close(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// Append writes one trade under the next sequence key. Implements Sink.
func (j *Journal) Append(tr engine.Trade) error {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, j.next)

	value, err := json.Marshal(tr)
	if err != nil {
		return err
	}
	if err := j.db.Set(key, value, pebble.Sync); err != nil {
		return fmt.Errorf("journal append: %w", err)
	}
	j.next++
	return nil
}

// Len reports the number of persisted records.
func (j *Journal) Len() uint64 { return j.next }

// Replay walks every persisted trade in sequence order.
func (j *Journal) Replay(fn func(seq uint64, tr engine.Trade) error) error {
	iter, err := j.db.NewIter(nil)
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var tr engine.Trade
		if err := json.Unmarshal(iter.Value(), &tr); err != nil {
			return fmt.Errorf("journal record %x: %w", iter.Key(), err)
		}
		if err := fn(binary.BigEndian.Uint64(iter.Key()), tr); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Close releases the underlying store.
func (j *Journal) Close() error { return j.db.Close() }
