package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	msgs []kafka.Message
}

func (s *recordingSender) Publish(_ context.Context, msgs ...kafka.Message) error {
	s.msgs = append(s.msgs, msgs...)
	return nil
}

func TestMovementsRecordedKeysByProduct(t *testing.T) {
	sender := &recordingSender{}
	p := NewKafkaPublisher(sender)

	err := p.MovementsRecorded(context.Background(), []model.StockMovement{
		{ID: "m1", StoreID: "s1", ProductID: "p1", Type: model.MovementSale, Quantity: -2, PreviousStock: 5, NewStock: 3},
		{ID: "m2", StoreID: "s1", ProductID: "p2", Type: model.MovementSale, Quantity: -1, PreviousStock: 1, NewStock: 0},
	})
	require.NoError(t, err)
	require.Len(t, sender.msgs, 2)
	assert.Equal(t, "p1", string(sender.msgs[0].Key))
	assert.Equal(t, "p2", string(sender.msgs[1].Key))

	var env Envelope
	require.NoError(t, json.Unmarshal(sender.msgs[0].Value, &env))
	assert.Equal(t, TypeStockMovementRecorded, env.EventType)
	assert.Equal(t, "s1", env.StoreID)

	var m model.StockMovement
	require.NoError(t, json.Unmarshal(env.Payload, &m))
	assert.Equal(t, 3, m.NewStock)
}

func TestSaleCommitted(t *testing.T) {
	sender := &recordingSender{}
	p := NewKafkaPublisher(sender)
	p.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	sale := &model.Sale{StoreID: "s1", Total: decimal.NewFromInt(35), PaymentMethod: model.PaymentCash}
	sale.ID = "sale-1"
	require.NoError(t, p.SaleCommitted(context.Background(), sale))

	require.Len(t, sender.msgs, 1)
	var env Envelope
	require.NoError(t, json.Unmarshal(sender.msgs[0].Value, &env))
	assert.Equal(t, TypeSaleCommitted, env.EventType)
	assert.Equal(t, "sale-1", string(sender.msgs[0].Key))
	assert.True(t, env.Timestamp.Equal(p.now()))
}

func TestMovementsRecordedEmpty(t *testing.T) {
	sender := &recordingSender{}
	require.NoError(t, NewKafkaPublisher(sender).MovementsRecorded(context.Background(), nil))
	assert.Empty(t, sender.msgs)
}
