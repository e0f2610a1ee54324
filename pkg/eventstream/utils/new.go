// Package eventstreamutils builds an eventstream.Publisher from configuration.
package eventstreamutils

import (
	"fmt"
	"log/slog"

	"github.com/papercomputeco/ragsql/pkg/eventstream"
	"github.com/papercomputeco/ragsql/pkg/eventstream/kafka"
	"github.com/papercomputeco/ragsql/pkg/eventstream/nop"
)

type NewPublisherOpts struct {
	ProviderType string
	Brokers      string
	Topic        string
	Logger       *slog.Logger
}

func NewPublisher(o *NewPublisherOpts) (eventstream.Publisher, error) {
	switch o.ProviderType {
	case "", "nop":
		return nop.NewPublisher(), nil
	case "kafka":
		return kafka.NewPublisher(kafka.Config{
			Brokers: o.Brokers,
			Topic:   o.Topic,
			Logger:  o.Logger,
		})
	default:
		return nil, fmt.Errorf("unsupported eventstream provider: %s", o.ProviderType)
	}
}
