package checkout

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/customer"

	"github.com/tablefare/cateringbackend/lib/myerrors"
)

//go:generate mockgen -source=payer.go -package checkout -destination payer_mock.go Payer
type Payer interface {
	UseAPIKey(key string)
	FindCustomerByEmail(c context.Context, email string) (*stripe.Customer, bool, error)
	CreateCustomer(c context.Context, params stripe.CustomerParams) (*stripe.Customer, error)
	CreateCheckoutSession(c context.Context, params stripe.CheckoutSessionParams) (stripe.CheckoutSession, error)
	ListSessionLineItems(c context.Context, sessionUID string) ([]*stripe.LineItem, error)
}

type stripePayer struct{}

func NewPayer() Payer {
	return &stripePayer{}
}

func (p *stripePayer) UseAPIKey(apiKey string) {
	stripe.Key = apiKey
}

func (p *stripePayer) FindCustomerByEmail(c context.Context, email string) (*stripe.Customer, bool, error) {
	iter := customer.List(&stripe.CustomerListParams{
		Email: stripe.String(email),
	})
	for iter.Next() {
		return iter.Customer(), true, nil
	}
	if err := iter.Err(); err != nil {
		return nil, false, myerrors.NewInternalError(fmt.Errorf("error listing customers: %s", err))
	}

	return nil, false, nil
}

func (p *stripePayer) CreateCustomer(c context.Context, params stripe.CustomerParams) (*stripe.Customer, error) {
	cust, err := customer.New(&params)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error creating customer: %s", err))
	}

	return cust, nil
}

func (p *stripePayer) CreateCheckoutSession(c context.Context, params stripe.CheckoutSessionParams) (stripe.CheckoutSession, error) {
	sess, err := session.New(&params)
	if err != nil {
		return stripe.CheckoutSession{}, myerrors.NewInternalError(fmt.Errorf("error creating checkout session: %s", err))
	}

	return *sess, nil
}

func (p *stripePayer) ListSessionLineItems(c context.Context, sessionUID string) ([]*stripe.LineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionUID),
	}
	params.AddExpand("data.price.product")

	lineItems := []*stripe.LineItem{}
	iter := session.ListLineItems(params)
	for iter.Next() {
		lineItems = append(lineItems, iter.LineItem())
	}
	if err := iter.Err(); err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error listing line items of session %s: %s", sessionUID, err))
	}

	return lineItems, nil
}
