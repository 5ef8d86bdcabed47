package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event names published to the rounds topic
const (
	EventMove          = "move"
	EventRoundFinished = "round_finished"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes round analytics as JSON messages keyed by round id, so
// the events of one round stay ordered within a partition.
type Producer struct {
	writer messageWriter
	now    func() time.Time
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	log.Printf("[KAFKA] Publishing to %s on %v", topic, brokers)
	return &Producer{writer: w, now: time.Now}
}

// Emit publishes one event. A nil Producer drops events silently.
func (p *Producer) Emit(ctx context.Context, event, roundID string, payload map[string]any) error {
	if p == nil || p.writer == nil {
		return nil
	}

	b, err := encodeEvent(event, roundID, p.now(), payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(roundID), Value: b}); err != nil {
		return fmt.Errorf("kafka emit %s: %w", event, err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// encodeEvent flattens payload into the message body next to the event
// name, timestamp and round id. Those three always win over payload keys.
func encodeEvent(event, roundID string, ts time.Time, payload map[string]any) ([]byte, error) {
	body := make(map[string]any, len(payload)+3)
	for k, v := range payload {
		body[k] = v
	}
	body["event"] = event
	body["ts"] = ts.UTC()
	body["roundId"] = roundID

	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", event, err)
	}
	return b, nil
}
