package tape

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"ladder/engine"
)

// Publisher streams executed trades to a Kafka topic. Messages are keyed by
// taker id so one taker's fills land in one partition, in order.
type Publisher struct {
	writer *kafka.Writer
	// Timeout bounds each synchronous publish when used as a Sink.
	Timeout time.Duration
}

type tradeMessage struct {
	MakerOrderID uint64 `json:"makerOrderId"`
	TakerOrderID uint64 `json:"takerOrderId"`
	Price        int64  `json:"price"`
	Quantity     int64  `json:"quantity"`
	Timestamp    int64  `json:"timestamp"`
}

// NewPublisher builds a synchronous publisher for the given brokers and
// topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
		Timeout: 5 * time.Second,
	}
}

// Publish sends one trade.
func (p *Publisher) Publish(ctx context.Context, tr engine.Trade) error {
	value, err := json.Marshal(tradeMessage{
		MakerOrderID: tr.MakerID,
		TakerOrderID: tr.TakerID,
		Price:        tr.Price,
		Quantity:     tr.Quantity,
		Timestamp:    tr.Timestamp,
	})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(tr.TakerID, 10)),
		Value: value,
	})
}

// Append implements Sink.
func (p *Publisher) Append(tr engine.Trade) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()
	return p.Publish(ctx, tr)
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error { return p.writer.Close() }
