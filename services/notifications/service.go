package notifications

import (
	"context"
	"fmt"
	"sort"

	"github.com/tablefare/cateringbackend/lib/myerrors"
	"github.com/tablefare/cateringbackend/lib/mylog"
	"github.com/tablefare/cateringbackend/lib/mypubsub"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/lib/myuuid"
	"github.com/tablefare/cateringbackend/services/checkout/checkoutevents"
)

type service struct {
	confirmationStore mystore.Store[Confirmation]
	pubsub            mypubsub.PubSub
	hostname          string
	nower             mytime.Nower
	uuider            myuuid.UUIDer
	logger            mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(confirmationStore mystore.Store[Confirmation], pubsub mypubsub.PubSub, hostname string, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *service {
	return &service{
		confirmationStore: confirmationStore,
		pubsub:            pubsub,
		hostname:          hostname,
		nower:             nower,
		uuider:            uuider,
		logger:            logger,
	}
}

func (s *service) Subscribe(c context.Context) error {
	err := s.pubsub.CreateTopic(c, checkoutevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", checkoutevents.TopicName, err)
	}

	err = s.pubsub.Subscribe(c, checkoutevents.TopicName, s.hostname+"/api/notifications/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}

func (s *service) OnCheckoutStarted(c context.Context, topic string, event checkoutevents.CheckoutStarted) error {
	s.logger.Log(c, event.SessionUID, mylog.SeverityInfo, "Checkout %s started for %s (%d cents)", event.SessionUID, event.CustomerEmail, event.AmountInCents)

	return nil
}

func (s *service) OnCheckoutCompleted(c context.Context, topic string, event checkoutevents.CheckoutCompleted) error {
	confirmation := Confirmation{
		UID:           s.uuider.Create(),
		SessionUID:    event.SessionUID,
		OrderUID:      event.OrderUID,
		CustomerEmail: event.CustomerEmail,
		Total:         event.Total,
		Currency:      event.Currency,
		CreatedAt:     s.nower.Now(),
	}

	// keyed by session so a redelivered event overwrites, not duplicates
	err := s.confirmationStore.Put(c, event.SessionUID, confirmation)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error storing confirmation for order %s: %s", event.OrderUID, err))
	}

	s.logger.Log(c, event.SessionUID, mylog.SeverityInfo, "Order confirmation due for %s (order %s)", event.CustomerEmail, event.OrderUID)

	return nil
}

func (s *service) listConfirmations(c context.Context) ([]Confirmation, error) {
	confirmations, err := s.confirmationStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error fetching confirmations: %s", err))
	}

	sort.Slice(confirmations, func(i, j int) bool {
		return confirmations[i].CreatedAt.After(confirmations[j].CreatedAt)
	})

	return confirmations, nil
}
