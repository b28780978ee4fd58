package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/events"
	"github.com/fekuna/omnipos-backoffice/internal/inventory"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/dto"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer is the part of the Kafka consumer the listener reads from.
type Consumer interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// PurchaseListener turns purchase.received events into PURCHASE adjustments.
type PurchaseListener struct {
	consumer Consumer
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewPurchaseListener(consumer Consumer, uc inventory.UseCase, log logger.ZapLogger) *PurchaseListener {
	return &PurchaseListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

func (l *PurchaseListener) Start(ctx context.Context) {
	l.logger.Info("Starting purchase receipt listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping purchase receipt listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type PurchaseReceivedPayload struct {
	PurchaseID string                `json:"purchase_id"`
	UserID     string                `json:"user_id"`
	Items      []PurchaseItemPayload `json:"items"`
}

type PurchaseItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (l *PurchaseListener) processMessage(ctx context.Context, value []byte) {
	var env events.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}
	if env.EventType != events.TypePurchaseReceived {
		return
	}

	var payload PurchaseReceivedPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		l.logger.Error("Failed to unmarshal purchase payload", zap.String("event_id", env.EventID), zap.Error(err))
		return
	}

	l.logger.Info("Processing purchase receipt",
		zap.String("purchase_id", payload.PurchaseID),
		zap.String("store_id", env.StoreID),
	)

	rc := auth.RequestContext{StoreID: env.StoreID, UserID: payload.UserID, Role: "SYSTEM"}
	notes := "purchase " + payload.PurchaseID
	for _, item := range payload.Items {
		_, err := l.uc.AdjustStock(ctx, rc, &dto.AdjustStockInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Reason:    string(model.MovementPurchase),
			Notes:     &notes,
		})
		if err != nil {
			l.logger.Error("Failed to apply purchase item",
				zap.String("purchase_id", payload.PurchaseID),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
		}
	}
}
