package orders

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusFailed    OrderStatus = "failed"
)

// adminTransitions lists the status changes the back-office may apply.
// The payment lifecycle transitions (paid, failed) are driven by the
// payment-notification handler, not by these.
var adminTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPaid:      {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusDelivered, OrderStatusCancelled},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range adminTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ParseOrderStatus(value string) (OrderStatus, bool) {
	switch OrderStatus(value) {
	case OrderStatusPending, OrderStatusPaid, OrderStatusPreparing, OrderStatusReady,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusFailed:
		return OrderStatus(value), true
	}
	return "", false
}

type OrderItem struct {
	Name       string
	Quantity   int64
	UnitAmount float64
	LineTotal  float64
}

type ShippingAddress struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Order is the persisted record of a completed checkout. It is created
// exactly once per processor session: the store is keyed by SessionUID,
// which is what makes redelivered completion events idempotent.
type Order struct {
	UID              string
	SessionUID       string
	PaymentIntentUID string
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	ShippingAddress  *ShippingAddress
	Items            []OrderItem
	Subtotal         float64
	Total            float64
	Currency         string
	Status           OrderStatus
	DeliveryDate     string
	DeliveryTime     string
	Notes            string `datastore:",noindex"`
	CreatedAt        time.Time
	LastModified     *time.Time
}

func (o Order) ItemSummary() string {
	lines := []string{}
	for _, item := range o.Items {
		lines = append(lines, fmt.Sprintf("%d x %s", item.Quantity, item.Name))
	}

	return strings.Join(lines, ", ")
}

func (o Order) TotalInCurrency() string {
	return fmt.Sprintf("%s %.2f", strings.ToUpper(o.Currency), o.Total)
}
