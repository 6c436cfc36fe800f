package orders

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/stripe/stripe-go/v82"

	"backend/internal/models"
	"backend/internal/payments"
)

// minorUnitsPerMajor converts the provider's minor-unit amounts (cents) to
// the major-unit prices stored on orders.
const minorUnitsPerMajor = 100

// Materializer converts a verified checkout-completed event into one order
// header plus its items. The order store offers no multi-statement
// transaction here (standalone Mongo), so a failed item insert is undone
// with a compensating delete of the header.
type Materializer struct {
	store    Store
	sessions payments.SessionAPI
}

func NewMaterializer(store Store, sessions payments.SessionAPI) *Materializer {
	return &Materializer{store: store, sessions: sessions}
}

// MaterializeCheckout persists the order for a completed checkout session.
//
// A nil return means the delivery is settled: either the order exists now,
// or the event carried metadata no redelivery can fix (absent, unparsable or
// empty intent) and was dropped. A non-nil return means a local write
// failed; the webhook transport still acknowledges the delivery, so the
// error is for logging, not for the provider.
//
// Redeliveries of the same session are tolerated: the pre-insert lookup plus
// the unique sparse index on checkoutSessionId keep the order unique.
func (m *Materializer) MaterializeCheckout(ctx context.Context, eventID string, session *stripe.CheckoutSession) error {
	intent, err := payments.DecodeIntent(session.Metadata)
	if err != nil {
		log.Printf("[WEBHOOK] [ERROR] session %s: unusable order intent, dropping event %s: %v", session.ID, eventID, err)
		return nil
	}

	existing, err := m.store.FindOrderBySessionID(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("dedupe lookup for session %s: %w", session.ID, err)
	}
	if existing != nil {
		log.Printf("[WEBHOOK] [INFO] session %s already materialized as order %s, skipping event %s",
			session.ID, existing.ID.Hex(), eventID)
		return nil
	}

	userID := intent.UserID
	if userID == "" {
		userID = "guest"
	}

	order := &models.Order{
		UserID: userID,
		// The provider's captured amount is the source of truth for money,
		// not a recomputed sum over the intent items.
		TotalPrice:        float64(session.AmountTotal) / minorUnitsPerMajor,
		Status:            models.OrderStatusCompleted,
		CheckoutSessionID: session.ID,
		PaymentEventID:    eventID,
		CreatedAt:         time.Now(),
	}

	orderID, err := m.store.InsertOrder(ctx, order)
	if err != nil {
		return fmt.Errorf("insert order for session %s: %w", session.ID, err)
	}

	items := make([]models.OrderItem, 0, len(intent.Items))
	for _, item := range intent.Items {
		items = append(items, models.OrderItem{
			OrderID:         orderID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.UnitPrice,
		})
	}

	if err := m.store.InsertOrderItems(ctx, items); err != nil {
		if delErr := m.store.DeleteOrder(ctx, orderID); delErr != nil {
			log.Printf("[WEBHOOK] [ERROR] order %s: rollback after item insert failure also failed, manual reconciliation required: %v",
				orderID.Hex(), delErr)
		} else {
			log.Printf("[WEBHOOK] [INFO] order %s rolled back after item insert failure", orderID.Hex())
		}
		return fmt.Errorf("insert order items for session %s: %w", session.ID, err)
	}

	log.Printf("[WEBHOOK] [INFO] order %s created for session %s (user %s, total %.2f, %d items)",
		orderID.Hex(), session.ID, userID, order.TotalPrice, len(items))

	m.linkOrderToSession(ctx, session, orderID.Hex())
	return nil
}

// linkOrderToSession back-writes the order id into the session metadata so
// the success page can resolve it. Best effort: a failure is logged and the
// order stands; the customer still has the order-history view.
func (m *Materializer) linkOrderToSession(ctx context.Context, session *stripe.CheckoutSession, orderID string) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	for key, value := range session.Metadata {
		params.AddMetadata(key, value)
	}
	params.AddMetadata(payments.MetadataOrderIDKey, orderID)

	if _, err := m.sessions.UpdateSession(session.ID, params); err != nil {
		log.Printf("[WEBHOOK] [ERROR] session %s: could not link order %s to session metadata: %v",
			session.ID, orderID, err)
		return
	}
	log.Printf("[WEBHOOK] [INFO] session %s linked to order %s", session.ID, orderID)
}
