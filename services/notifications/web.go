package notifications

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tablefare/cateringbackend/lib/mycontext"
	"github.com/tablefare/cateringbackend/lib/myhttp"
	"github.com/tablefare/cateringbackend/lib/mylog"
	"github.com/tablefare/cateringbackend/lib/mypubsub"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/lib/myuuid"
	"github.com/tablefare/cateringbackend/services/checkout/checkoutevents"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

func NewWebService(confirmationStore mystore.Store[Confirmation], pubsub mypubsub.PubSub, hostname string, nower mytime.Nower, uuider myuuid.UUIDer) *webService {
	logger := mylog.New("notifications")

	return &webService{
		logger:  logger,
		service: newService(confirmationStore, pubsub, hostname, nower, uuider, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/notifications/event", s.handleEventEnvelope()).Methods("POST")
	router.HandleFunc("/api/notifications", s.listConfirmationsPage()).Methods("GET")

	return s.service.Subscribe(c)
}

func (s *webService) handleEventEnvelope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := checkoutevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{Message: "Successfully processed event"})
	}
}

func (s *webService) listConfirmationsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		confirmations, err := s.service.listConfirmations(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, confirmations)
	}
}
