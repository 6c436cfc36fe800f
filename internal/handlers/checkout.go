package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"backend/internal/middleware"
	"backend/internal/payments"
)

type checkoutRequest struct {
	Items []payments.CartItem `json:"items" binding:"required"`
}

// CreateCheckoutSession turns the posted cart snapshot into a hosted payment
// session. Authentication is optional here: a blank Authorization header
// means a guest checkout, but a present-and-invalid token is still rejected.
func CreateCheckoutSession(initiator *payments.SessionInitiator, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/checkout"
		defer handlePanic(c, route)

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		userID, err := middleware.UserIDFromHeader(c.GetHeader("Authorization"), jwtSecret)
		if err != nil {
			log.Println("[CHECKOUT] [ERROR] token validation failed:", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		sessionID, err := initiator.CreateSession(c.Request.Context(), req.Items, userID)
		if err != nil {
			if errors.Is(err, payments.ErrEmptyCart) || errors.Is(err, payments.ErrInvalidQuantity) {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "checkout session could not be created")
			return
		}

		c.JSON(http.StatusOK, gin.H{"sessionId": sessionID})
	}
}

// GetCheckoutSession lets the success page discover the order eventually
// created for a session. A null orderId means the webhook has not
// materialized it yet; clients poll or fall back to order history.
func GetCheckoutSession(resolver *payments.SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/checkout/session"
		defer handlePanic(c, route)

		sessionID := strings.TrimSpace(c.Query("id"))
		if sessionID == "" {
			respondWithError(c, http.StatusBadRequest, route, "session id is required")
			return
		}

		resolution, err := resolver.Resolve(c.Request.Context(), sessionID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "session could not be retrieved")
			return
		}

		c.JSON(http.StatusOK, resolution)
	}
}
