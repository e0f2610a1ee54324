// Package kafka publishes confirmation events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/ragsql/pkg/eventstream"
	"github.com/papercomputeco/ragsql/pkg/logger"
)

const defaultWriteTimeout = 10 * time.Second

// messageWriter is the subset of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Config configures the Kafka publisher.
type Config struct {
	// Brokers is a comma-separated list of host:port addresses.
	Brokers string
	Topic   string

	WriteTimeout time.Duration
	Logger       *slog.Logger
}

// Publisher writes one message per event, keyed by interaction id so every
// event for an interaction lands on the same partition.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewPublisher creates a Kafka-backed publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	brokers := splitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher requires at least one broker")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka publisher requires a topic")
	}

	timeout := cfg.WriteTimeout
	if timeout == 0 {
		timeout = defaultWriteTimeout
	}

	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		WriteTimeout: timeout,
	}

	return newPublisher(w, cfg.Topic, cfg.Logger), nil
}

func newPublisher(w messageWriter, topic string, log *slog.Logger) *Publisher {
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{writer: w, topic: topic, logger: log}
}

// Publish serializes the event as JSON and writes it to the topic.
func (p *Publisher) Publish(ctx context.Context, event *eventstream.InteractionConfirmedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(strconv.FormatInt(event.Interaction.ID, 10)),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "schema_version", Value: []byte(strconv.Itoa(event.SchemaVersion))},
		},
		Time: event.EmittedAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}

	p.logger.Debug("published event",
		"topic", p.topic,
		"event_id", event.EventID,
		"interaction_id", event.Interaction.ID,
	)
	return nil
}

// Close flushes pending writes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

var _ eventstream.Publisher = (*Publisher)(nil)
