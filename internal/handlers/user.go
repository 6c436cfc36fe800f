package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

type addressRequest struct {
	Title     string `json:"title" binding:"required"`
	Detail    string `json:"detail" binding:"required"`
	Note      string `json:"note"`
	IsDefault bool   `json:"isDefault"`
}

type profileUpdateRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// loadProfile fetches the user's profile, returning an empty one when the
// user has never written storefront data before.
func loadProfile(ctx context.Context, db *mongo.Database, userID string) (models.Profile, error) {
	var profile models.Profile
	err := db.Collection("profiles").FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return models.Profile{UserID: userID, Addresses: []models.Address{}}, nil
	}
	if err != nil {
		return models.Profile{}, err
	}
	if profile.Addresses == nil {
		profile.Addresses = []models.Address{}
	}
	return profile, nil
}

func saveAddresses(ctx context.Context, db *mongo.Database, userID string, addresses []models.Address) error {
	now := time.Now()
	_, err := db.Collection("profiles").UpdateOne(
		ctx,
		bson.M{"userId": userID},
		bson.M{
			"$set":         bson.M{"addresses": addresses, "updatedAt": now},
			"$setOnInsert": bson.M{"userId": userID, "createdAt": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func GetMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/me"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		profile, err := loadProfile(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"userId":    profile.UserID,
			"name":      profile.Name,
			"phone":     profile.Phone,
			"addresses": profile.Addresses,
			"createdAt": profile.CreatedAt,
			"updatedAt": profile.UpdatedAt,
		})
	}
}

func UpdateMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /user/me"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req profileUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		_, err := db.Collection("profiles").UpdateOne(
			ctx,
			bson.M{"userId": userID},
			bson.M{
				"$set": bson.M{
					"name":      strings.TrimSpace(req.Name),
					"phone":     strings.TrimSpace(req.Phone),
					"updatedAt": now,
				},
				"$setOnInsert": bson.M{"userId": userID, "addresses": []models.Address{}, "createdAt": now},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
	}
}

func GetUserAddresses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/addresses"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		profile, err := loadProfile(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"addresses": profile.Addresses})
	}
}

func CreateUserAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/addresses"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Println("[ADDRESS] [ERROR] invalid address body:", err)
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		profile, err := loadProfile(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		address := models.Address{
			ID:        uuid.NewString(),
			Title:     strings.TrimSpace(req.Title),
			Detail:    strings.TrimSpace(req.Detail),
			Note:      strings.TrimSpace(req.Note),
			IsDefault: req.IsDefault || len(profile.Addresses) == 0,
		}

		addresses := profile.Addresses
		if address.IsDefault {
			for i := range addresses {
				addresses[i].IsDefault = false
			}
		}
		addresses = append(addresses, address)

		if err := saveAddresses(ctx, db, userID, addresses); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusCreated, address)
	}
}

func UpdateUserAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /user/addresses/:id"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressID := c.Param("id")

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		profile, err := loadProfile(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		addresses := profile.Addresses
		found := false
		for i := range addresses {
			if addresses[i].ID != addressID {
				continue
			}
			found = true
			addresses[i].Title = strings.TrimSpace(req.Title)
			addresses[i].Detail = strings.TrimSpace(req.Detail)
			addresses[i].Note = strings.TrimSpace(req.Note)
			addresses[i].IsDefault = req.IsDefault
		}
		if !found {
			respondWithError(c, http.StatusNotFound, route, "address not found")
			return
		}

		if req.IsDefault {
			for i := range addresses {
				if addresses[i].ID != addressID {
					addresses[i].IsDefault = false
				}
			}
		}

		if err := saveAddresses(ctx, db, userID, addresses); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "address updated"})
	}
}

func DeleteUserAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /user/addresses/:id"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressID := c.Param("id")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		profile, err := loadProfile(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		addresses := make([]models.Address, 0, len(profile.Addresses))
		removedDefault := false
		found := false
		for _, address := range profile.Addresses {
			if address.ID == addressID {
				found = true
				removedDefault = address.IsDefault
				continue
			}
			addresses = append(addresses, address)
		}
		if !found {
			respondWithError(c, http.StatusNotFound, route, "address not found")
			return
		}

		if removedDefault && len(addresses) > 0 {
			addresses[0].IsDefault = true
		}

		if err := saveAddresses(ctx, db, userID, addresses); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
	}
}
