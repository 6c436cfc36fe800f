package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	nameIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("name_index"),
	}

	log.Println("EnsureProductIndexes: creating name_index index")
	_, err := indexes.CreateOne(ctx, nameIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: name index error:", err)
		return err
	}
	log.Println("EnsureProductIndexes: name_index index created")
	return nil
}

// EnsureOrderIndexes creates the user lookup index and the unique sparse
// index on checkoutSessionId. The unique index is the backstop that keeps a
// redelivered webhook event from materializing a second order for the same
// checkout session.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_index"),
	}

	sessionIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "checkoutSessionId", Value: 1}},
		Options: options.Index().
			SetName("checkoutSessionId_unique").
			SetUnique(true).
			SetSparse(true),
	}

	log.Println("EnsureOrderIndexes: creating userId_index and checkoutSessionId_unique indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{userIDIndex, sessionIndex})
	if err != nil {
		log.Println("EnsureOrderIndexes: order index error:", err)
		return err
	}
	log.Println("EnsureOrderIndexes: order indexes created")
	return nil
}

func EnsureOrderItemIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("order_items").Indexes()

	orderIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "orderId", Value: 1}},
		Options: options.Index().SetName("orderId_index"),
	}

	log.Println("EnsureOrderItemIndexes: creating orderId_index index")
	_, err := indexes.CreateOne(ctx, orderIDIndex)
	if err != nil {
		log.Println("EnsureOrderItemIndexes: orderId index error:", err)
		return err
	}
	log.Println("EnsureOrderItemIndexes: orderId_index index created")
	return nil
}

func EnsureProfileIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("profiles").Indexes()

	userIDIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().
			SetName("userId_unique").
			SetUnique(true),
	}

	log.Println("EnsureProfileIndexes: creating userId_unique index")
	_, err := indexes.CreateOne(ctx, userIDIndex)
	if err != nil {
		log.Println("EnsureProfileIndexes: userId index error:", err)
		return err
	}
	log.Println("EnsureProfileIndexes: userId_unique index created")
	return nil
}
