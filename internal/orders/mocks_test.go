package orders

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

// MockStore implements Store for testing, including forced failures at each
// write step.
type MockStore struct {
	Existing *models.Order
	FindErr  error

	InsertedOrder   *models.Order
	InsertedOrderID primitive.ObjectID
	InsertOrderErr  error

	InsertedItems  []models.OrderItem
	InsertItemsErr error

	DeletedOrderID *primitive.ObjectID
	DeleteErr      error
}

func (m *MockStore) FindOrderBySessionID(_ context.Context, _ string) (*models.Order, error) {
	return m.Existing, m.FindErr
}

func (m *MockStore) InsertOrder(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	if m.InsertOrderErr != nil {
		return primitive.NilObjectID, m.InsertOrderErr
	}
	m.InsertedOrder = order
	m.InsertedOrderID = primitive.NewObjectID()
	return m.InsertedOrderID, nil
}

func (m *MockStore) InsertOrderItems(_ context.Context, items []models.OrderItem) error {
	if m.InsertItemsErr != nil {
		return m.InsertItemsErr
	}
	m.InsertedItems = items
	return nil
}

func (m *MockStore) DeleteOrder(_ context.Context, orderID primitive.ObjectID) error {
	m.DeletedOrderID = &orderID
	return m.DeleteErr
}

// MockSessionAPI implements payments.SessionAPI; only UpdateSession matters
// for the materializer's metadata back-write.
type MockSessionAPI struct {
	UpdateID     string
	UpdateParams *stripe.CheckoutSessionParams
	UpdateErr    error
}

func (m *MockSessionAPI) CreateSession(_ *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return nil, nil
}

func (m *MockSessionAPI) GetSession(_ string, _ *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return nil, nil
}

func (m *MockSessionAPI) UpdateSession(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	m.UpdateID = id
	m.UpdateParams = params
	return nil, m.UpdateErr
}
