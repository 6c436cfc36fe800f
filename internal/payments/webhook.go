package payments

import (
	"errors"
	"log"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// ErrVerificationFailed covers every way an inbound event can fail
// authentication: missing header, malformed header, or a signature that does
// not match the received byte sequence.
var ErrVerificationFailed = errors.New("webhook signature verification failed")

// WebhookVerifier authenticates provider-initiated event deliveries against
// the shared signing secret. The caller must hand over the complete raw
// request body: the signature covers every byte.
type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

func (v *WebhookVerifier) Verify(payload []byte, signatureHeader string) (stripe.Event, error) {
	if strings.TrimSpace(signatureHeader) == "" {
		log.Println("[WEBHOOK] [ERROR] signature header missing")
		return stripe.Event{}, ErrVerificationFailed
	}

	// The provider pins events to the API version configured on its side,
	// which is independent of the SDK version compiled in here.
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		log.Println("[WEBHOOK] [ERROR] event verification failed:", err)
		return stripe.Event{}, ErrVerificationFailed
	}

	return event, nil
}
