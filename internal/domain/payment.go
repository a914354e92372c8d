package domain

import "context"

// CheckoutSessionRequest describes a hosted-checkout session to create.
type CheckoutSessionRequest struct {
	Amount     float64           `json:"amount"`
	Currency   string            `json:"currency"`
	SuccessURL string            `json:"successUrl"`
	CancelURL  string            `json:"cancelUrl"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// CheckoutSession is the provider's handle for a created session.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CheckoutStatus is the provider-side state of a session.
type CheckoutStatus struct {
	SessionID     string `json:"sessionId"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// PaymentProvider abstracts the hosted-checkout gateway. The protocol
// behind it is out of scope here; the storefront only needs sessions
// created and polled.
type PaymentProvider interface {
	CreateSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error)
	SessionStatus(ctx context.Context, sessionID string) (*CheckoutStatus, error)
}
