package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"

	"backend/internal/orders"
	"backend/internal/payments"
)

// StripeWebhook receives asynchronous payment lifecycle events. Only a
// failed signature check produces a non-2xx response; every verified
// delivery is acknowledged even when materialization fails locally, so the
// provider does not redeliver indefinitely for a non-recoverable bug.
func StripeWebhook(verifier *payments.WebhookVerifier, materializer *orders.Materializer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/webhooks/stripe"
		defer handlePanic(c, route)

		// The signature covers the full byte sequence, so the body must be
		// read whole before verification.
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		event, err := verifier.Verify(body, c.GetHeader("Stripe-Signature"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "signature verification failed")
			return
		}

		switch event.Type {
		case stripe.EventTypeCheckoutSessionCompleted:
			handleCheckoutSessionCompleted(c.Request.Context(), materializer, event)
		case stripe.EventTypePaymentIntentSucceeded:
			log.Println("[WEBHOOK] [INFO] payment succeeded:", event.ID)
		default:
			log.Printf("[WEBHOOK] [INFO] unhandled event type %s (%s)", event.Type, event.ID)
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func handleCheckoutSessionCompleted(ctx context.Context, materializer *orders.Materializer, event stripe.Event) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Printf("[WEBHOOK] [ERROR] event %s: could not decode session payload: %v", event.ID, err)
		return
	}

	log.Printf("[WEBHOOK] [INFO] checkout completed: session %s, payment_status %s, amount_total %d",
		session.ID, session.PaymentStatus, session.AmountTotal)

	// The provider enforces a response deadline on deliveries; keep the
	// materialization bounded well inside it.
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := materializer.MaterializeCheckout(ctx, event.ID, &session); err != nil {
		log.Printf("[WEBHOOK] [ERROR] event %s: order materialization failed: %v", event.ID, err)
	}
}
