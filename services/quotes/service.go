package quotes

import (
	"context"
	"fmt"
	"sort"

	"github.com/tablefare/cateringbackend/lib/myerrors"
	"github.com/tablefare/cateringbackend/lib/mylog"
	"github.com/tablefare/cateringbackend/lib/mypublisher"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/lib/myuuid"
	"github.com/tablefare/cateringbackend/services/quotes/quoteevents"
)

type service struct {
	quoteStore mystore.Store[QuoteRequest]
	publisher  mypublisher.Publisher
	nower      mytime.Nower
	uuider     myuuid.UUIDer
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(quoteStore mystore.Store[QuoteRequest], nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger, pub mypublisher.Publisher) *service {
	return &service{
		quoteStore: quoteStore,
		publisher:  pub,
		nower:      nower,
		uuider:     uuider,
		logger:     logger,
	}
}

func (s *service) CreateTopics(c context.Context) error {
	err := s.publisher.CreateTopic(c, quoteevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", quoteevents.TopicName, err)
	}

	return nil
}

func (s *service) submitQuoteRequest(c context.Context, form QuoteForm) (QuoteRequest, error) {
	err := form.Validate()
	if err != nil {
		return QuoteRequest{}, myerrors.NewInvalidInputError(err)
	}

	quote := QuoteRequest{
		UID:        s.uuider.Create(),
		Name:       form.Name,
		Email:      form.Email,
		Phone:      form.Phone,
		EventDate:  form.EventDate,
		GuestCount: form.GuestCount,
		Message:    form.Message,
		CreatedAt:  s.nower.Now(),
	}

	err = s.quoteStore.RunInTransaction(c, func(c context.Context) error {
		err := s.quoteStore.Put(c, quote.UID, quote)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing quote request: %s", err))
		}

		err = s.publisher.Publish(c, quoteevents.TopicName, quoteevents.QuoteRequested{
			QuoteUID:      quote.UID,
			CustomerEmail: quote.Email,
			EventDate:     quote.EventDate,
			GuestCount:    quote.GuestCount,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing quote-requested event: %s", err))
		}

		return nil
	})
	if err != nil {
		return QuoteRequest{}, err
	}

	s.logger.Log(c, quote.UID, mylog.SeverityInfo, "Quote request %s submitted by %s", quote.UID, quote.Email)

	return quote, nil
}

func (s *service) listQuoteRequests(c context.Context) ([]QuoteRequest, error) {
	quotes, err := s.quoteStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error fetching quote requests: %s", err))
	}

	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].CreatedAt.After(quotes[j].CreatedAt)
	})

	return quotes, nil
}
