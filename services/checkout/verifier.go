package checkout

import (
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
)

// WebhookVerifier checks the authenticity of an incoming payment
// notification before any of its content is trusted.
//
//go:generate mockgen -source=verifier.go -package checkout -destination verifier_mock.go WebhookVerifier
type WebhookVerifier interface {
	Verify(payload []byte, signatureHeader string) (stripe.Event, error)
}

type stripeVerifier struct {
	webhookSecret string
}

func NewVerifier(webhookSecret string) WebhookVerifier {
	return &stripeVerifier{
		webhookSecret: webhookSecret,
	}
}

func (v *stripeVerifier) Verify(payload []byte, signatureHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signatureHeader, v.webhookSecret)
}
