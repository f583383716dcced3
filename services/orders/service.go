package orders

import (
	"context"
	"fmt"
	"sort"

	"github.com/tablefare/cateringbackend/lib/myerrors"
	"github.com/tablefare/cateringbackend/lib/mylog"
	"github.com/tablefare/cateringbackend/lib/mypublisher"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/services/orders/orderevents"
)

type service struct {
	orderStore mystore.Store[Order]
	publisher  mypublisher.Publisher
	nower      mytime.Nower
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(orderStore mystore.Store[Order], nower mytime.Nower, logger mylog.Logger, pub mypublisher.Publisher) *service {
	return &service{
		orderStore: orderStore,
		publisher:  pub,
		nower:      nower,
		logger:     logger,
	}
}

func (s *service) CreateTopics(c context.Context) error {
	err := s.publisher.CreateTopic(c, orderevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", orderevents.TopicName, err)
	}

	return nil
}

func (s *service) listOrders(c context.Context) ([]Order, error) {
	s.logger.Log(c, "", mylog.SeverityInfo, "Fetch all orders")

	orders, err := s.orderStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

func (s *service) getOrder(c context.Context, sessionUID string) (Order, error) {
	order, found, err := s.orderStore.Get(c, sessionUID)
	if err != nil {
		return Order{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Order{}, myerrors.NewNotFoundError(fmt.Errorf("order for session %s not found", sessionUID))
	}

	return order, nil
}

// updateStatus applies a back-office status change. Only the administrative
// subset of the order lifecycle is reachable this way.
func (s *service) updateStatus(c context.Context, sessionUID string, newStatus OrderStatus) (Order, error) {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Update status of order for session %s -> %s", sessionUID, newStatus)

	now := s.nower.Now()

	var order Order
	err := s.orderStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent

		var found bool
		var err error
		order, found, err = s.orderStore.Get(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("order for session %s not found", sessionUID))
		}

		if order.Status == newStatus {
			// idempotent re-apply
			return nil
		}

		if !order.Status.CanTransitionTo(newStatus) {
			return myerrors.NewInvalidInputErrorf("order in status %s cannot move to %s", order.Status, newStatus)
		}

		oldStatus := order.Status
		order.Status = newStatus
		order.LastModified = &now

		err = s.orderStore.Put(c, sessionUID, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, orderevents.TopicName, orderevents.OrderStatusChanged{
			OrderUID:   order.UID,
			SessionUID: order.SessionUID,
			OldStatus:  string(oldStatus),
			NewStatus:  string(newStatus),
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}
