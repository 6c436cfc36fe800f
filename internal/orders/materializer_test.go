package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"backend/internal/models"
	"backend/internal/payments"
)

func completedSession() *stripe.CheckoutSession {
	return &stripe.CheckoutSession{
		ID:            "cs_test_1",
		AmountTotal:   4500,
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		Metadata: map[string]string{
			payments.MetadataItemsKey:  `[{"id":"prod-a","quantity":2,"price":1000},{"id":"prod-b","quantity":1,"price":2500}]`,
			payments.MetadataUserIDKey: "user-7",
		},
	}
}

func TestMaterializeCreatesOrderAndItems(t *testing.T) {
	store := &MockStore{}
	sessions := &MockSessionAPI{}
	materializer := NewMaterializer(store, sessions)

	err := materializer.MaterializeCheckout(context.Background(), "evt_1", completedSession())
	require.NoError(t, err)

	order := store.InsertedOrder
	require.NotNil(t, order)
	assert.Equal(t, "user-7", order.UserID)
	assert.Equal(t, 45.00, order.TotalPrice) // amount_total is in minor units
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.Equal(t, "cs_test_1", order.CheckoutSessionID)
	assert.Equal(t, "evt_1", order.PaymentEventID)

	require.Len(t, store.InsertedItems, 2)
	assert.Equal(t, "prod-a", store.InsertedItems[0].ProductID)
	assert.Equal(t, int64(2), store.InsertedItems[0].Quantity)
	assert.Equal(t, int64(1000), store.InsertedItems[0].PriceAtPurchase)
	assert.Equal(t, "prod-b", store.InsertedItems[1].ProductID)
	assert.Equal(t, int64(1), store.InsertedItems[1].Quantity)
	assert.Equal(t, int64(2500), store.InsertedItems[1].PriceAtPurchase)
	for _, item := range store.InsertedItems {
		assert.Equal(t, store.InsertedOrderID, item.OrderID)
	}

	assert.Nil(t, store.DeletedOrderID)
}

func TestMaterializeFallsBackToGuest(t *testing.T) {
	session := completedSession()
	delete(session.Metadata, payments.MetadataUserIDKey)

	store := &MockStore{}
	materializer := NewMaterializer(store, &MockSessionAPI{})

	require.NoError(t, materializer.MaterializeCheckout(context.Background(), "evt_1", session))
	require.NotNil(t, store.InsertedOrder)
	assert.Equal(t, "guest", store.InsertedOrder.UserID)
}

func TestMaterializeBackWritesOrderIDToSession(t *testing.T) {
	store := &MockStore{}
	sessions := &MockSessionAPI{}
	materializer := NewMaterializer(store, sessions)

	require.NoError(t, materializer.MaterializeCheckout(context.Background(), "evt_1", completedSession()))

	assert.Equal(t, "cs_test_1", sessions.UpdateID)
	require.NotNil(t, sessions.UpdateParams)
	assert.Equal(t, store.InsertedOrderID.Hex(), sessions.UpdateParams.Metadata[payments.MetadataOrderIDKey])
	// original intent metadata is preserved alongside the back-reference
	assert.NotEmpty(t, sessions.UpdateParams.Metadata[payments.MetadataItemsKey])
}

func TestMaterializeBackWriteFailureDoesNotUndoOrder(t *testing.T) {
	store := &MockStore{}
	sessions := &MockSessionAPI{UpdateErr: errors.New("stripe unavailable")}
	materializer := NewMaterializer(store, sessions)

	err := materializer.MaterializeCheckout(context.Background(), "evt_1", completedSession())
	require.NoError(t, err)
	assert.NotNil(t, store.InsertedOrder)
	assert.Len(t, store.InsertedItems, 2)
	assert.Nil(t, store.DeletedOrderID)
}

func TestMaterializeRollsBackOrderWhenItemInsertFails(t *testing.T) {
	store := &MockStore{InsertItemsErr: errors.New("write concern error")}
	materializer := NewMaterializer(store, &MockSessionAPI{})

	err := materializer.MaterializeCheckout(context.Background(), "evt_1", completedSession())
	require.Error(t, err)

	// compensating delete removed the just-created header
	require.NotNil(t, store.DeletedOrderID)
	assert.Equal(t, store.InsertedOrderID, *store.DeletedOrderID)
}

func TestMaterializeSkipsAlreadyMaterializedSession(t *testing.T) {
	store := &MockStore{Existing: &models.Order{CheckoutSessionID: "cs_test_1"}}
	materializer := NewMaterializer(store, &MockSessionAPI{})

	// same event redelivered: no second order
	err := materializer.MaterializeCheckout(context.Background(), "evt_1", completedSession())
	require.NoError(t, err)
	assert.Nil(t, store.InsertedOrder)
	assert.Nil(t, store.InsertedItems)
}

func TestMaterializeDropsSessionWithoutIntent(t *testing.T) {
	for name, metadata := range map[string]map[string]string{
		"absent":     nil,
		"empty":      {payments.MetadataItemsKey: "[]"},
		"unparsable": {payments.MetadataItemsKey: "{broken"},
	} {
		t.Run(name, func(t *testing.T) {
			session := completedSession()
			session.Metadata = metadata

			store := &MockStore{}
			materializer := NewMaterializer(store, &MockSessionAPI{})

			// fire-and-forget: malformed metadata is logged and dropped,
			// never surfaced as a retriable failure
			err := materializer.MaterializeCheckout(context.Background(), "evt_1", session)
			require.NoError(t, err)
			assert.Nil(t, store.InsertedOrder)
		})
	}
}

func TestMaterializeDedupeLookupFailureIsRetriable(t *testing.T) {
	store := &MockStore{FindErr: errors.New("connection reset")}
	materializer := NewMaterializer(store, &MockSessionAPI{})

	err := materializer.MaterializeCheckout(context.Background(), "evt_1", completedSession())
	require.Error(t, err)
	assert.Nil(t, store.InsertedOrder)
}
