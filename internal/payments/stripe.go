package payments

import (
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// SessionAPI is the slice of the payment provider this service touches:
// checkout session create, retrieve and metadata update. Handlers and the
// materializer depend on this interface so tests can run against fakes.
type SessionAPI interface {
	CreateSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetSession(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	UpdateSession(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeAPI struct {
	api *client.API
}

// NewStripeAPI builds the real provider client from the secret key.
func NewStripeAPI(secretKey string) SessionAPI {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeAPI{api: api}
}

func (s *stripeAPI) CreateSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return s.api.CheckoutSessions.New(params)
}

func (s *stripeAPI) GetSession(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return s.api.CheckoutSessions.Get(id, params)
}

func (s *stripeAPI) UpdateSession(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return s.api.CheckoutSessions.Update(id, params)
}
