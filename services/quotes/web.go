package quotes

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tablefare/cateringbackend/lib/mycontext"
	"github.com/tablefare/cateringbackend/lib/myhttp"
	"github.com/tablefare/cateringbackend/lib/mylog"
	"github.com/tablefare/cateringbackend/lib/mypublisher"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/lib/myuuid"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

func NewWebService(quoteStore mystore.Store[QuoteRequest], nower mytime.Nower, uuider myuuid.UUIDer, pub mypublisher.Publisher) (*webService, error) {
	logger := mylog.New("quotes")
	s := newService(quoteStore, nower, uuider, logger, pub)

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
	router.HandleFunc("/api/quotes", s.submitQuoteRequestPage()).Methods("POST")
	router.HandleFunc("/api/quotes", myhttp.PreflightHandler()).Methods("OPTIONS")
	router.HandleFunc("/api/quotes", s.listQuoteRequestsPage()).Methods("GET")
}

func (s *webService) submitQuoteRequestPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		myhttp.AddCORSHeaders(w)

		form, err := NewQuoteFormFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		quote, err := s.service.submitQuoteRequest(c, form)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, quote)
	}
}

func (s *webService) listQuoteRequestsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		quotes, err := s.service.listQuoteRequests(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, quotes)
	}
}
