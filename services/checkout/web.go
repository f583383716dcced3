package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tablefare/cateringbackend/lib/mycontext"
	"github.com/tablefare/cateringbackend/lib/myerrors"
	"github.com/tablefare/cateringbackend/lib/myhttp"
	"github.com/tablefare/cateringbackend/lib/mylog"
	"github.com/tablefare/cateringbackend/lib/mypublisher"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/lib/myuuid"
	"github.com/tablefare/cateringbackend/services/catalog"
	"github.com/tablefare/cateringbackend/services/orders"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(apiKey string, catalogReader catalog.Reader, payer Payer, verifier WebhookVerifier, orderStore mystore.Store[orders.Order], nower mytime.Nower, uuider myuuid.UUIDer, pub mypublisher.Publisher) (*webService, error) {
	logger := mylog.New("checkout")
	s := newService(apiKey, catalogReader, payer, verifier, orderStore, nower, uuider, logger, pub)

	err := s.CreateTopics(context.Background())
	if err != nil {
		return nil, err
	}

	return &webService{
		logger:  logger,
		service: s,
	}, nil
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/api/checkout/session", s.startCheckoutPage()).Methods("POST")
	router.HandleFunc("/api/checkout/session", myhttp.PreflightHandler()).Methods("OPTIONS")
	router.HandleFunc("/api/checkout/webhook", s.webhookNotificationPage()).Methods("POST")
	router.HandleFunc("/api/checkout/webhook", myhttp.PreflightHandler()).Methods("OPTIONS")
}

func (s *webService) startCheckoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		myhttp.AddCORSHeaders(w)

		request := CheckoutRequest{}
		err := json.NewDecoder(r.Body).Decode(&request)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("error parsing request body: %s", err)))
			return
		}

		response, err := s.service.startCheckout(c, request)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, response)
	}
}

func (s *webService) webhookNotificationPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		myhttp.AddCORSHeaders(w)

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("error reading request body: %s", err)))
			return
		}

		err = s.service.webhookNotification(c, payload, r.Header.Get("Stripe-Signature"))
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, WebhookResponse{Received: true})
	}
}
