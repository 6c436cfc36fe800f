package payments

import (
	"context"
	"errors"
	"log"

	"github.com/stripe/stripe-go/v82"
)

// ErrSessionCreation is the generic failure surfaced when the provider call
// goes wrong; provider internals are logged, never returned to clients.
var ErrSessionCreation = errors.New("checkout session could not be created")

// SessionInitiator turns a cart snapshot into a hosted checkout session.
// It trusts the snapshot prices as-is and creates nothing locally: the only
// side effect is the remote session, and order creation is deferred until
// the provider confirms payment asynchronously.
type SessionInitiator struct {
	sessions SessionAPI
	baseURL  string
	currency string
}

func NewSessionInitiator(sessions SessionAPI, baseURL, currency string) *SessionInitiator {
	return &SessionInitiator{
		sessions: sessions,
		baseURL:  baseURL,
		currency: currency,
	}
}

// CreateSession validates the cart, attaches the serialized order intent as
// session metadata and returns the opaque session id. An empty cart fails
// before the provider is ever invoked.
func (si *SessionInitiator) CreateSession(ctx context.Context, items []CartItem, userID string) (string, error) {
	metadata, err := EncodeIntentMetadata(items, userID)
	if err != nil {
		return "", err
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Product.Name),
		}
		if item.Product.Description != "" {
			productData.Description = stripe.String(item.Product.Description)
		}
		if item.Product.ImageURL != "" {
			productData.Images = stripe.StringSlice([]string{item.Product.ImageURL})
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(si.currency),
				ProductData: productData,
				UnitAmount:  stripe.Int64(item.Product.Price),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		// {CHECKOUT_SESSION_ID} is substituted by the provider on redirect.
		SuccessURL: stripe.String(si.baseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(si.baseURL + "/checkout/cancel"),
	}
	params.Context = ctx
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	session, err := si.sessions.CreateSession(params)
	if err != nil {
		log.Println("[CHECKOUT] [ERROR] session creation failed:", err)
		return "", ErrSessionCreation
	}

	log.Println("[CHECKOUT] [INFO] session created:", session.ID)
	return session.ID, nil
}
