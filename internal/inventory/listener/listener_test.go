package listener

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-backoffice/internal/events"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/inventorytest"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/usecase"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/pkg/cache"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queueConsumer struct {
	msgs   []kafka.Message
	cancel context.CancelFunc
}

func (q *queueConsumer) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(q.msgs) == 0 {
		q.cancel()
		return kafka.Message{}, errors.New("closed")
	}
	m := q.msgs[0]
	q.msgs = q.msgs[1:]
	return m, nil
}

func envelope(t *testing.T, eventType, storeID string, payload interface{}) kafka.Message {
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	value, err := json.Marshal(events.Envelope{EventID: "e1", EventType: eventType, StoreID: storeID, Payload: raw})
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func TestPurchaseListenerAppliesItems(t *testing.T) {
	store := inventorytest.NewStore()
	p := model.Product{StoreID: "s1", Name: "Cable", Stock: 2, TrackStock: true}
	p.ID = "p1"
	store.AddProduct(p)

	uc := usecase.NewInventoryUseCase(store, cache.Noop{}, events.NoopPublisher{}, usecase.Options{}, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	consumer := &queueConsumer{cancel: cancel, msgs: []kafka.Message{
		{Value: []byte("not json")},
		envelope(t, "order.created", "s1", map[string]string{}),
		envelope(t, events.TypePurchaseReceived, "s1", PurchaseReceivedPayload{
			PurchaseID: "po-1",
			UserID:     "u1",
			Items: []PurchaseItemPayload{
				{ProductID: "p1", Quantity: 10},
				{ProductID: "missing", Quantity: 1},
				{ProductID: "p1", Quantity: 0},
			},
		}),
	}}

	NewPurchaseListener(consumer, uc, logger.NewNop()).Start(ctx)

	assert.Equal(t, 12, store.Product("p1").Stock)
	movements := store.Movements("p1")
	require.Len(t, movements, 2)
	assert.Equal(t, model.MovementPurchase, movements[1].Type)
	assert.Equal(t, "u1", movements[1].UserID)
	assert.Equal(t, "purchase po-1", *movements[1].Notes)
}
