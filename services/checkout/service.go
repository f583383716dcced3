package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v74"

	"github.com/tablefare/cateringbackend/lib/myerrors"
	"github.com/tablefare/cateringbackend/lib/mylog"
	"github.com/tablefare/cateringbackend/lib/mypublisher"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/lib/myuuid"
	"github.com/tablefare/cateringbackend/services/catalog"
	"github.com/tablefare/cateringbackend/services/checkout/checkoutevents"
	"github.com/tablefare/cateringbackend/services/orders"
)

const defaultCurrency = "usd"

// Metadata attached to the processor session at creation time and read back
// when the completion notification arrives.
const (
	metaDeliveryDate    = "delivery_date"
	metaDeliveryTime    = "delivery_time"
	metaDeliveryAddress = "delivery_address"
	metaNotes           = "notes"
	metaCustomerName    = "customer_name"
	metaCustomerPhone   = "customer_phone"
)

type service struct {
	catalog    catalog.Reader
	payer      Payer
	verifier   WebhookVerifier
	orderStore mystore.Store[orders.Order]
	publisher  mypublisher.Publisher
	nower      mytime.Nower
	uuider     myuuid.UUIDer
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(apiKey string, catalogReader catalog.Reader, payer Payer, verifier WebhookVerifier, orderStore mystore.Store[orders.Order], nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger, pub mypublisher.Publisher) *service {
	payer.UseAPIKey(apiKey)

	return &service{
		catalog:    catalogReader,
		payer:      payer,
		verifier:   verifier,
		orderStore: orderStore,
		publisher:  pub,
		nower:      nower,
		uuider:     uuider,
		logger:     logger,
	}
}

func (s *service) CreateTopics(c context.Context) error {
	err := s.publisher.CreateTopic(c, checkoutevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}

// startCheckout re-prices the submitted cart against the stored catalog and
// creates a hosted checkout session on the payment platform. Nothing is
// created on the platform unless every cart line passes verification.
func (s *service) startCheckout(c context.Context, req CheckoutRequest) (CheckoutSessionResponse, error) {
	err := req.Validate()
	if err != nil {
		return CheckoutSessionResponse{}, myerrors.NewInvalidInputError(err)
	}

	s.logger.Log(c, "", mylog.SeverityInfo, "Start checkout for %s with %d cart lines", req.CustomerInfo.Email, len(req.CartItems))

	lineItems, amountInCents, err := s.verifyCart(c, req.CartItems)
	if err != nil {
		return CheckoutSessionResponse{}, err
	}

	cust, err := s.findOrCreateCustomer(c, req.CustomerInfo)
	if err != nil {
		return CheckoutSessionResponse{}, err
	}

	params := stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		Customer:   stripe.String(cust.ID),
		LineItems:  lineItems,
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: sessionMetadata(req.CustomerInfo),
		},
	}
	for key, value := range sessionMetadata(req.CustomerInfo) {
		params.AddMetadata(key, value)
	}

	sess, err := s.payer.CreateCheckoutSession(c, params)
	if err != nil {
		return CheckoutSessionResponse{}, err
	}

	err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutStarted{
		SessionUID:    sess.ID,
		AmountInCents: amountInCents,
		Currency:      defaultCurrency,
		CustomerEmail: req.CustomerInfo.Email,
	})
	if err != nil {
		// the session exists: a missed analytics event must not fail the checkout
		s.logger.Log(c, sess.ID, mylog.SeverityWarn, "Error publishing checkout-started event for session %s: %s", sess.ID, err)
	}

	return CheckoutSessionResponse{
		URL:        sess.URL,
		SessionUID: sess.ID,
	}, nil
}

// verifyCart re-derives the price of every cart line from the catalog.
// Client-submitted prices are never used for billing.
func (s *service) verifyCart(c context.Context, cartLines []CartLine) ([]*stripe.CheckoutSessionLineItemParams, int64, error) {
	itemUIDs, modifierUIDs := collectUIDs(cartLines)

	items, err := s.catalog.GetMenuItemsByIDs(c, itemUIDs)
	if err != nil {
		return nil, 0, myerrors.NewInternalError(fmt.Errorf("error fetching menu items: %s", err))
	}
	if len(items) == 0 {
		return nil, 0, myerrors.NewInvalidInputErrorf("the items in your cart are no longer available")
	}

	itemsByUID := map[string]catalog.MenuItem{}
	for _, item := range items {
		itemsByUID[item.UID] = item
	}

	modifiersByUID := map[string]catalog.Modifier{}
	if len(modifierUIDs) > 0 {
		modifiers, err := s.catalog.GetModifiersByIDs(c, modifierUIDs)
		if err != nil {
			return nil, 0, myerrors.NewInternalError(fmt.Errorf("error fetching modifiers: %s", err))
		}
		for _, modifier := range modifiers {
			modifiersByUID[modifier.UID] = modifier
		}
	}

	lineItems := []*stripe.CheckoutSessionLineItemParams{}
	var amountInCents int64

	for _, line := range cartLines {
		item, found := itemsByUID[line.ID]
		if !found {
			return nil, 0, myerrors.NewInvalidInputErrorf("item %s is no longer available", displayName(line))
		}
		if !item.IsAvailable {
			return nil, 0, myerrors.NewInvalidInputErrorf("item %s is currently unavailable", item.Name)
		}
		if line.Quantity < minQuantity || line.Quantity > maxQuantity {
			return nil, 0, myerrors.NewInvalidInputErrorf("invalid quantity %d for item %s", line.Quantity, item.Name)
		}

		if math.Abs(line.Price-item.Price) > priceTolerance {
			// never trusted for billing: the authoritative price wins
			s.logger.Log(c, item.UID, mylog.SeverityWarn, "Price mismatch for item %s: client submitted %.2f, catalog says %.2f", item.Name, line.Price, item.Price)
		}

		unitPrice := item.Price
		modifierNames := []string{}
		for _, lineModifier := range line.Modifiers {
			modifier, found := modifiersByUID[lineModifier.ID]
			if !found {
				// unknown modifiers are omitted rather than charged blind
				s.logger.Log(c, item.UID, mylog.SeverityWarn, "Unknown modifier %s on item %s ignored", lineModifier.ID, item.Name)
				continue
			}
			if !modifier.IsAvailable {
				return nil, 0, myerrors.NewInvalidInputErrorf("modifier %s is currently unavailable", modifier.Name)
			}

			unitPrice += modifier.Price
			modifierNames = append(modifierNames, modifier.Name)
		}

		productName := item.Name
		if len(modifierNames) > 0 {
			productName = fmt.Sprintf("%s (%s)", item.Name, strings.Join(modifierNames, ", "))
		}

		unitAmount := catalog.ToCents(unitPrice)
		amountInCents += unitAmount * line.Quantity

		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(productName),
		}
		if imageURL := lineImageURL(item, line); imageURL != "" {
			productData.Images = []*string{stripe.String(imageURL)}
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(defaultCurrency),
				UnitAmount:  stripe.Int64(unitAmount),
				ProductData: productData,
			},
			Quantity: stripe.Int64(line.Quantity),
		})
	}

	return lineItems, amountInCents, nil
}

func (s *service) findOrCreateCustomer(c context.Context, info CustomerInfo) (*stripe.Customer, error) {
	cust, found, err := s.payer.FindCustomerByEmail(c, info.Email)
	if err != nil {
		return nil, err
	}
	if found {
		return cust, nil
	}

	params := stripe.CustomerParams{
		Email: stripe.String(info.Email),
		Name:  stripe.String(info.Name),
	}
	if info.Phone != "" {
		params.Phone = stripe.String(info.Phone)
	}
	if info.Address != "" {
		params.Address = &stripe.AddressParams{
			Line1: stripe.String(info.Address),
		}
	}

	return s.payer.CreateCustomer(c, params)
}

// webhookNotification processes a signed payment notification. Nothing in the
// payload is acted upon before its signature has been verified.
func (s *service) webhookNotification(c context.Context, payload []byte, signatureHeader string) error {
	if signatureHeader == "" {
		return myerrors.NewInvalidInputErrorf("missing signature header")
	}

	event, err := s.verifier.Verify(payload, signatureHeader)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("webhook signature verification failed: %s", err))
	}

	s.logger.Log(c, event.ID, mylog.SeverityInfo, "Webhook: received event %s", event.Type)

	switch event.Type {
	case "checkout.session.completed":
		sess := stripe.CheckoutSession{}
		err = json.Unmarshal(event.Data.Raw, &sess)
		if err != nil {
			return myerrors.NewInvalidInputError(fmt.Errorf("error parsing completed session: %s", err))
		}
		return s.handleSessionCompleted(c, sess)

	case "payment_intent.succeeded":
		return s.updateOrderForPaymentIntent(c, event, orders.OrderStatusPaid)

	case "payment_intent.payment_failed":
		return s.updateOrderForPaymentIntent(c, event, orders.OrderStatusFailed)

	default:
		// acknowledged without side effects so the platform does not retry
		s.logger.Log(c, event.ID, mylog.SeverityInfo, "Webhook: ignoring event type %s", event.Type)
		return nil
	}
}

// handleSessionCompleted materializes the order for a completed session,
// exactly once per session id. Amounts come from the processor's own record
// of the session that was verified at creation time: they are not recomputed
// here.
func (s *service) handleSessionCompleted(c context.Context, sess stripe.CheckoutSession) error {
	lineItems, err := s.payer.ListSessionLineItems(c, sess.ID)
	if err != nil {
		return err
	}

	order := s.orderFromSession(sess, lineItems)

	return s.orderStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent: the platform redelivers notifications

		_, exists, err := s.orderStore.Get(c, sess.ID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error checking for existing order of session %s: %s", sess.ID, err))
		}
		if exists {
			s.logger.Log(c, sess.ID, mylog.SeverityInfo, "Order for session %s already recorded -> acknowledge", sess.ID)
			return nil
		}

		err = s.orderStore.Put(c, sess.ID, order)
		if err != nil {
			// surfaced as a server error so the platform redelivers
			return myerrors.NewInternalError(fmt.Errorf("error storing order for session %s: %s", sess.ID, err))
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
			SessionUID:    sess.ID,
			OrderUID:      order.UID,
			Total:         order.Total,
			Currency:      order.Currency,
			CustomerEmail: order.CustomerEmail,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing checkout-completed event: %s", err))
		}

		return nil
	})
}

func (s *service) orderFromSession(sess stripe.CheckoutSession, lineItems []*stripe.LineItem) orders.Order {
	orderItems := []orders.OrderItem{}
	for _, lineItem := range lineItems {
		name := lineItem.Description
		if name == "" && lineItem.Price != nil && lineItem.Price.Product != nil {
			name = lineItem.Price.Product.Name
		}

		var unitAmount float64
		if lineItem.Price != nil {
			unitAmount = float64(lineItem.Price.UnitAmount) / 100
		}

		orderItems = append(orderItems, orders.OrderItem{
			Name:       name,
			Quantity:   lineItem.Quantity,
			UnitAmount: unitAmount,
			LineTotal:  float64(lineItem.AmountTotal) / 100,
		})
	}

	order := orders.Order{
		UID:           s.uuider.Create(),
		SessionUID:    sess.ID,
		CustomerName:  sess.Metadata[metaCustomerName],
		CustomerPhone: sess.Metadata[metaCustomerPhone],
		Items:         orderItems,
		Subtotal:      float64(sess.AmountSubtotal) / 100,
		Total:         float64(sess.AmountTotal) / 100,
		Currency:      string(sess.Currency),
		Status:        orders.OrderStatusPaid,
		DeliveryDate:  sess.Metadata[metaDeliveryDate],
		DeliveryTime:  sess.Metadata[metaDeliveryTime],
		Notes:         sess.Metadata[metaNotes],
		CreatedAt:     s.nower.Now(),
	}

	if sess.PaymentIntent != nil {
		order.PaymentIntentUID = sess.PaymentIntent.ID
	}

	if sess.CustomerDetails != nil {
		order.CustomerEmail = sess.CustomerDetails.Email
		if sess.CustomerDetails.Name != "" {
			order.CustomerName = sess.CustomerDetails.Name
		}
		if sess.CustomerDetails.Phone != "" {
			order.CustomerPhone = sess.CustomerDetails.Phone
		}
	}

	if sess.ShippingDetails != nil && sess.ShippingDetails.Address != nil {
		address := sess.ShippingDetails.Address
		order.ShippingAddress = &orders.ShippingAddress{
			Name:       sess.ShippingDetails.Name,
			Line1:      address.Line1,
			Line2:      address.Line2,
			City:       address.City,
			State:      address.State,
			PostalCode: address.PostalCode,
			Country:    address.Country,
		}
	}

	return order
}

// updateOrderForPaymentIntent adjusts the status of the order belonging to a
// payment intent. A notification for an unknown payment intent is a no-op,
// not an error: the completed-session event may not have arrived yet.
func (s *service) updateOrderForPaymentIntent(c context.Context, event stripe.Event, status orders.OrderStatus) error {
	paymentIntent := stripe.PaymentIntent{}
	err := json.Unmarshal(event.Data.Raw, &paymentIntent)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("error parsing payment intent: %s", err))
	}
	if paymentIntent.ID == "" {
		s.logger.Log(c, event.ID, mylog.SeverityWarn, "Payment-intent event %s without id -> acknowledge", event.Type)
		return nil
	}

	return s.orderStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent

		candidates, err := s.orderStore.Query(c, []mystore.Filter{
			{Field: "PaymentIntentUID", Compare: "=", Value: paymentIntent.ID},
		}, "CreatedAt")
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error querying orders for payment intent %s: %s", paymentIntent.ID, err))
		}

		for _, order := range candidates {
			if order.PaymentIntentUID != paymentIntent.ID {
				// the in-memory store returns unfiltered results
				continue
			}
			if order.Status == status {
				return nil
			}

			order.Status = status
			err = s.orderStore.Put(c, order.SessionUID, order)
			if err != nil {
				return myerrors.NewInternalError(fmt.Errorf("error updating order %s: %s", order.UID, err))
			}

			return nil
		}

		s.logger.Log(c, paymentIntent.ID, mylog.SeverityInfo, "No order for payment intent %s -> acknowledge", paymentIntent.ID)
		return nil
	})
}

func collectUIDs(cartLines []CartLine) ([]string, []string) {
	seenItems := map[string]bool{}
	seenModifiers := map[string]bool{}
	itemUIDs := []string{}
	modifierUIDs := []string{}

	for _, line := range cartLines {
		if !seenItems[line.ID] {
			seenItems[line.ID] = true
			itemUIDs = append(itemUIDs, line.ID)
		}
		for _, modifier := range line.Modifiers {
			if !seenModifiers[modifier.ID] {
				seenModifiers[modifier.ID] = true
				modifierUIDs = append(modifierUIDs, modifier.ID)
			}
		}
	}

	return itemUIDs, modifierUIDs
}

func displayName(line CartLine) string {
	if line.Name != "" {
		return line.Name
	}
	return line.ID
}

func lineImageURL(item catalog.MenuItem, line CartLine) string {
	if item.ImageURL != "" {
		return item.ImageURL
	}
	return line.ImageURL
}

func sessionMetadata(info CustomerInfo) map[string]string {
	return map[string]string{
		metaCustomerName:    info.Name,
		metaCustomerPhone:   info.Phone,
		metaDeliveryAddress: info.Address,
		metaDeliveryDate:    info.DeliveryDate,
		metaDeliveryTime:    info.DeliveryTime,
		metaNotes:           info.Notes,
	}
}
