package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusShipped    = "shipped"
	OrderStatusCancelled  = "cancelled"
)

// Order is the persisted order header. It is written exactly once per
// completed checkout session; only its status changes afterwards, through
// administrative updates.
type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            string             `bson:"userId" json:"userId"`
	TotalPrice        float64            `bson:"totalPrice" json:"totalPrice"`
	Status            string             `bson:"status" json:"status"`
	CheckoutSessionID string             `bson:"checkoutSessionId,omitempty" json:"checkoutSessionId,omitempty"`
	PaymentEventID    string             `bson:"paymentEventId,omitempty" json:"paymentEventId,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`

	// Items are stored in their own collection and attached on read.
	Items []OrderItem `bson:"-" json:"items,omitempty"`
}

// OrderItem is a child row of an order. Items are created together with
// their order and removed when order creation is rolled back.
//
// ProductID stays a plain string: it travels through checkout-session
// metadata and must not break materialization when the catalog no longer
// knows the id.
type OrderItem struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID         primitive.ObjectID `bson:"orderId" json:"orderId"`
	ProductID       string             `bson:"productId" json:"productId"`
	Quantity        int64              `bson:"quantity" json:"quantity"`
	PriceAtPurchase int64              `bson:"priceAtPurchase" json:"priceAtPurchase"`
}

func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusProcessing, OrderStatusCompleted, OrderStatusShipped, OrderStatusCancelled:
		return true
	default:
		return false
	}
}
