package orders

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

// Store is the keyed CRUD surface the materializer needs from the order
// store. It stays an interface so the materializer can be tested against
// fakes, including forced partial-write failures.
type Store interface {
	// FindOrderBySessionID returns (nil, nil) when no order references the
	// checkout session.
	FindOrderBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	InsertOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	InsertOrderItems(ctx context.Context, items []models.OrderItem) error
	DeleteOrder(ctx context.Context, orderID primitive.ObjectID) error
}

type mongoStore struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) Store {
	return &mongoStore{db: db}
}

func (s *mongoStore) FindOrderBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := s.db.Collection("orders").FindOne(ctx, bson.M{"checkoutSessionId": sessionID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *mongoStore) InsertOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	res, err := s.db.Collection("orders").InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}

	orderID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("unexpected inserted order id type")
	}
	return orderID, nil
}

func (s *mongoStore) InsertOrderItems(ctx context.Context, items []models.OrderItem) error {
	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		docs = append(docs, item)
	}

	_, err := s.db.Collection("order_items").InsertMany(ctx, docs)
	return err
}

func (s *mongoStore) DeleteOrder(ctx context.Context, orderID primitive.ObjectID) error {
	_, err := s.db.Collection("orders").DeleteOne(ctx, bson.M{"_id": orderID})
	return err
}
