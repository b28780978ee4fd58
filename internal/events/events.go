package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TypeSaleCommitted         = "sale.committed"
	TypeStockMovementRecorded = "stock.movement_recorded"
	TypePurchaseReceived      = "purchase.received"
)

type Envelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	StoreID   string          `json:"store_id"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher announces committed state changes. It is only called after the
// unit of work commits, so subscribers never see rolled back writes.
type Publisher interface {
	MovementsRecorded(ctx context.Context, movements []model.StockMovement) error
	SaleCommitted(ctx context.Context, sale *model.Sale) error
}

// Sender is the part of the Kafka producer the publisher needs.
type Sender interface {
	Publish(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	sender Sender
	now    func() time.Time
}

func NewKafkaPublisher(sender Sender) *KafkaPublisher {
	return &KafkaPublisher{sender: sender, now: time.Now}
}

func (p *KafkaPublisher) message(eventType, storeID, key string, payload interface{}) (kafka.Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	value, err := json.Marshal(Envelope{
		EventID:   uuid.New().String(),
		EventType: eventType,
		StoreID:   storeID,
		Payload:   raw,
		Timestamp: p.now().UTC(),
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s envelope: %w", eventType, err)
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}, nil
}

// MovementsRecorded publishes one message per movement keyed by product id.
func (p *KafkaPublisher) MovementsRecorded(ctx context.Context, movements []model.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(movements))
	for i := range movements {
		m := &movements[i]
		msg, err := p.message(TypeStockMovementRecorded, m.StoreID, m.ProductID, m)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return p.sender.Publish(ctx, msgs...)
}

func (p *KafkaPublisher) SaleCommitted(ctx context.Context, sale *model.Sale) error {
	msg, err := p.message(TypeSaleCommitted, sale.StoreID, sale.ID, sale)
	if err != nil {
		return err
	}
	return p.sender.Publish(ctx, msg)
}

type NoopPublisher struct{}

func (NoopPublisher) MovementsRecorded(context.Context, []model.StockMovement) error { return nil }
func (NoopPublisher) SaleCommitted(context.Context, *model.Sale) error              { return nil }
