package checkout

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	maxCartLines = 50
	minQuantity  = 1
	maxQuantity  = 100

	// price differences below one cent between the client-claimed and the
	// authoritative price are attributed to float rounding, not drift
	priceTolerance = 0.01
)

// CartLine is a client-submitted cart entry. The claimed price is advisory
// only: it is compared against the authoritative catalog price for anomaly
// logging but never used for billing.
type CartLine struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Price     float64        `json:"price"`
	Quantity  int64          `json:"quantity"`
	ImageURL  string         `json:"imageUrl,omitempty"`
	Modifiers []CartModifier `json:"modifiers,omitempty"`
}

type CartModifier struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type CustomerInfo struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	DeliveryDate string `json:"deliveryDate"`
	DeliveryTime string `json:"deliveryTime"`
	Notes        string `json:"notes,omitempty"`
}

type CheckoutRequest struct {
	CartItems    []CartLine   `json:"cartItems"`
	CustomerInfo CustomerInfo `json:"customerInfo"`
	SuccessURL   string       `json:"successUrl"`
	CancelURL    string       `json:"cancelUrl"`
}

func (r CheckoutRequest) Validate() error {
	if len(r.CartItems) == 0 {
		return fmt.Errorf("cart is empty")
	}
	if len(r.CartItems) > maxCartLines {
		return fmt.Errorf("cart exceeds %d lines", maxCartLines)
	}
	if strings.TrimSpace(r.CustomerInfo.Name) == "" {
		return fmt.Errorf("customer name is required")
	}
	if _, err := mail.ParseAddress(r.CustomerInfo.Email); err != nil {
		return fmt.Errorf("customer email %q is invalid", r.CustomerInfo.Email)
	}

	return nil
}

type CheckoutSessionResponse struct {
	URL        string `json:"url"`
	SessionUID string `json:"sessionId"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}
