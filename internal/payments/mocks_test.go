package payments

import (
	"github.com/stripe/stripe-go/v82"
)

// MockSessionAPI implements SessionAPI for testing. It captures the params
// handed to the provider and replays canned responses.
type MockSessionAPI struct {
	CreateCalls  int
	CreateParams *stripe.CheckoutSessionParams
	CreateResp   *stripe.CheckoutSession
	CreateErr    error

	GetCalls int
	GetID    string
	GetResp  *stripe.CheckoutSession
	GetErr   error

	UpdateID     string
	UpdateParams *stripe.CheckoutSessionParams
	UpdateErr    error
}

func (m *MockSessionAPI) CreateSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	m.CreateCalls++
	m.CreateParams = params
	return m.CreateResp, m.CreateErr
}

func (m *MockSessionAPI) GetSession(id string, _ *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	m.GetCalls++
	m.GetID = id
	return m.GetResp, m.GetErr
}

func (m *MockSessionAPI) UpdateSession(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	m.UpdateID = id
	m.UpdateParams = params
	return m.GetResp, m.UpdateErr
}
