package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func TestResolveReturnsNilOrderIDBeforeMaterialization(t *testing.T) {
	mock := &MockSessionAPI{GetResp: &stripe.CheckoutSession{
		ID:            "cs_1",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		Metadata:      map[string]string{MetadataItemsKey: `[{"id":"p","quantity":1,"price":100}]`},
	}}
	resolver := NewSessionResolver(mock)

	resolution, err := resolver.Resolve(context.Background(), "cs_1")
	require.NoError(t, err)

	// No back-reference yet: the webhook simply has not run. This is a
	// poll-again signal, not a failure.
	assert.Nil(t, resolution.OrderID)
	assert.Equal(t, "paid", resolution.PaymentStatus)
	assert.Equal(t, "cs_1", mock.GetID)
}

func TestResolveReturnsBackReferencedOrderID(t *testing.T) {
	mock := &MockSessionAPI{GetResp: &stripe.CheckoutSession{
		ID:            "cs_1",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		Metadata:      map[string]string{MetadataOrderIDKey: "65a0c0ffee"},
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{
			Email: "buyer@example.com",
		},
	}}
	resolver := NewSessionResolver(mock)

	resolution, err := resolver.Resolve(context.Background(), "cs_1")
	require.NoError(t, err)
	require.NotNil(t, resolution.OrderID)
	assert.Equal(t, "65a0c0ffee", *resolution.OrderID)
	assert.Equal(t, "buyer@example.com", resolution.CustomerEmail)
}

func TestResolveProviderErrorIsGeneric(t *testing.T) {
	mock := &MockSessionAPI{GetErr: errors.New("stripe: no such session cs_1")}
	resolver := NewSessionResolver(mock)

	_, err := resolver.Resolve(context.Background(), "cs_1")
	assert.ErrorIs(t, err, ErrSessionLookup)
}
