// Package kafka provides an eventstream.Publisher backed by a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/hexlockco/alembic/pkg/eventstream"
)

// Publisher writes report events to a Kafka topic as JSON messages keyed by
// record ID, so events for one record land on one partition in order.
type Publisher struct {
	writer *kafkago.Writer
}

// NewPublisher creates a Kafka-backed publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	if topic == "" {
		return nil, errors.New("no kafka topic configured")
	}

	return &Publisher{
		writer: &kafkago.Writer{
			Addr:     kafkago.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkago.LeastBytes{},
		},
	}, nil
}

// PublishReport encodes the event as JSON and writes it to the topic.
func (p *Publisher) PublishReport(ctx context.Context, event *eventstream.ReportPersistedEvent) error {
	if event == nil {
		return eventstream.ErrNilReportEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding report event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.Report.RecordID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publishing report event: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
