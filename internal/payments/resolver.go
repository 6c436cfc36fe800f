package payments

import (
	"context"
	"errors"
	"log"

	"github.com/stripe/stripe-go/v82"
)

var ErrSessionLookup = errors.New("checkout session could not be retrieved")

// SessionResolution is what a success page gets back for a session id. A nil
// OrderID is a normal outcome, not an error: the webhook that materializes
// the order races the redirect and usually loses. Callers poll.
type SessionResolution struct {
	OrderID       *string `json:"orderId"`
	PaymentStatus string  `json:"paymentStatus"`
	CustomerEmail string  `json:"customerEmail,omitempty"`
}

// SessionResolver bridges the synchronous checkout redirect and the
// asynchronous order creation. The provider-held session metadata is the
// only source of truth for the linkage; the order store is never queried.
type SessionResolver struct {
	sessions SessionAPI
}

func NewSessionResolver(sessions SessionAPI) *SessionResolver {
	return &SessionResolver{sessions: sessions}
}

func (r *SessionResolver) Resolve(ctx context.Context, sessionID string) (SessionResolution, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	session, err := r.sessions.GetSession(sessionID, params)
	if err != nil {
		log.Println("[CHECKOUT] [ERROR] session lookup failed:", err)
		return SessionResolution{}, ErrSessionLookup
	}

	resolution := SessionResolution{
		PaymentStatus: string(session.PaymentStatus),
	}
	if orderID := session.Metadata[MetadataOrderIDKey]; orderID != "" {
		resolution.OrderID = &orderID
	}
	if session.CustomerDetails != nil {
		resolution.CustomerEmail = session.CustomerDetails.Email
	}

	return resolution, nil
}
