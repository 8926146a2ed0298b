package producer

import (
	"context"
	"time"
)

type EventType string

const (
	EventOrderCreated       EventType = "order.created"
	EventOrderPaid          EventType = "order.paid"
	EventOrderStatusChanged EventType = "order.status_changed"
	EventOrderShipped       EventType = "order.shipped"
	EventOrderPaymentFailed EventType = "order.payment_failed"
)

// OrderEvent 訂單狀態變化事件，key 為 order id 以保證同一訂單順序
type OrderEvent struct {
	Type          EventType `json:"type"`
	OrderID       string    `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status,omitempty"`
	Total         float64   `json:"total"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type OrderEventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// NoopPublisher 未設定 kafka 時使用
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event OrderEvent) error { return nil }
func (NoopPublisher) Close() error { return nil }
