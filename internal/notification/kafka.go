package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"github.com/samber/lo"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

const (
	EventOrderConfirmation = "order_confirmation"
	EventOrderStatusUpdate = "order_status_update"
)

// MailEvent is the payload the mail worker consumes to render and send the
// actual email. Everything the template needs is denormalised in.
type MailEvent struct {
	EventType   string          `json:"event_type"`
	OrderID     string          `json:"order_id"`
	Status      string          `json:"status"`
	FullName    string          `json:"full_name"`
	TotalPaid   string          `json:"total_paid"`
	Currency    string          `json:"currency"`
	Items       []MailEventItem `json:"items"`
	Recipients  []string        `json:"recipients"`
	PublishedAt time.Time       `json:"published_at"`
}

type MailEventItem struct {
	ProductName string `json:"product_name"`
	Quantity    int32  `json:"quantity"`
	Price       string `json:"price"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaNotifier publishes mail events to the mail-events topic. Sends go
// through a circuit breaker so a dead broker fails fast instead of stalling
// payment confirmation.
type KafkaNotifier struct {
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewKafkaNotifier(brokers ...string) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "mail-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return newKafkaNotifier(w)
}

func newKafkaNotifier(w messageWriter) *KafkaNotifier {
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "mail-events",
		Timeout: 30 * time.Second,
	})
	return &KafkaNotifier{writer: w, breaker: breaker}
}

func (n *KafkaNotifier) SendOrderConfirmation(ctx context.Context, order *domain.Order) error {
	return n.publish(ctx, EventOrderConfirmation, order)
}

func (n *KafkaNotifier) SendOrderStatusUpdate(ctx context.Context, order *domain.Order) error {
	return n.publish(ctx, EventOrderStatusUpdate, order)
}

func (n *KafkaNotifier) publish(ctx context.Context, eventType string, order *domain.Order) error {
	event := MailEvent{
		EventType: eventType,
		OrderID:   order.ID.String(),
		Status:    order.Status.String(),
		FullName:  order.FullName,
		TotalPaid: order.TotalPaid.Amount.String(),
		Currency:  order.TotalPaid.Currency.String(),
		Items: lo.Map(order.Items, func(item domain.OrderItem, _ int) MailEventItem {
			return MailEventItem{
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				Price:       item.Price.Amount.String(),
			}
		}),
		Recipients:  []string{order.Email},
		PublishedAt: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal mail event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID.String()), // order id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	_, err = n.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, n.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("publish mail event: %w", err)
	}

	return nil
}
