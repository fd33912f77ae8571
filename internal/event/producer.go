package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sipandsavor/cafe/internal/domain"
	pkgkafka "github.com/sipandsavor/cafe/pkg/kafka"
	"github.com/sipandsavor/cafe/pkg/logger"
)

// Kafka topics for ordering events.
var (
	TopicOrderSubmitted = pkgkafka.Topic("cafe", "order", "submitted")
	TopicCartCleared    = pkgkafka.Topic("cafe", "cart", "cleared")
)

// Aggregate types.
const (
	AggregateTypeOrder   = "order"
	AggregateTypeSession = "session"
)

// SourceOrderingService identifies events originating from this service.
const SourceOrderingService = "cafe-ordering"

// OrderSubmittedData is the payload for an order.submitted event: the kitchen ticket.
type OrderSubmittedData struct {
	OrderID   string          `json:"order_id"`
	SessionID string          `json:"session_id"`
	Items     []OrderItemData `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  int64           `json:"subtotal"`
	Tax       int64           `json:"tax"`
	Total     int64           `json:"total"`
}

// OrderItemData is one line of the kitchen ticket.
type OrderItemData struct {
	LineItemID string   `json:"line_item_id"`
	ProductID  string   `json:"product_id"`
	Name       string   `json:"name"`
	Sugar      string   `json:"sugar,omitempty"`
	Ice        string   `json:"ice,omitempty"`
	Toppings   []string `json:"toppings"`
	Quantity   int      `json:"quantity"`
	UnitPrice  int64    `json:"unit_price"`
	TotalPrice int64    `json:"total_price"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
	OrderID   string `json:"order_id,omitempty"`
}

// Producer publishes ordering events.
type Producer struct {
	publisher pkgkafka.Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer. Pass pkgkafka.Discard to disable publishing.
func NewProducer(publisher pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishOrderSubmitted publishes the kitchen ticket for items.
func (p *Producer) PublishOrderSubmitted(ctx context.Context, sessionID, orderID string, items []domain.CartItem) error {
	lines := make([]OrderItemData, len(items))
	count := 0
	for i, item := range items {
		line := OrderItemData{
			LineItemID: item.ID,
			ProductID:  item.Product.ID,
			Name:       item.Product.Name,
			Toppings:   make([]string, len(item.Toppings)),
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
		if item.Drink != nil {
			line.Sugar = string(item.Drink.Sugar)
			line.Ice = string(item.Drink.Ice)
		}
		for j, t := range item.Toppings {
			line.Toppings[j] = t.Name
		}
		lines[i] = line
		count += item.Quantity
	}

	totals := domain.OrderTotals(items)
	data := OrderSubmittedData{
		OrderID:   orderID,
		SessionID: sessionID,
		Items:     lines,
		ItemCount: count,
		Subtotal:  totals.Subtotal,
		Tax:       totals.Tax,
		Total:     totals.Total,
	}

	if err := p.publish(ctx, TopicOrderSubmitted, orderID, AggregateTypeOrder, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published order.submitted event",
		slog.String("order_id", orderID),
		slog.Int("item_count", count),
	)
	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID, orderID string) error {
	data := CartClearedData{SessionID: sessionID, OrderID: orderID}

	if err := p.publish(ctx, TopicCartCleared, sessionID, AggregateTypeSession, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
	)
	return nil
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceOrderingService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.publisher.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}
