package kafka

import (
	"context"
	"strings"
)

// Publisher sends events to a topic. *Producer is the Kafka implementation;
// Discard is used when the event bus is disabled.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
	Close() error
}

// Topic builds a topic name such as "cafe.order.submitted".
func Topic(parts ...string) string {
	return strings.Join(parts, ".")
}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, string, *Event) error { return nil }
func (discard) Close() error                                  { return nil }
