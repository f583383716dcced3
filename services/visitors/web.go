package visitors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tablefare/cateringbackend/lib/mycontext"
	"github.com/tablefare/cateringbackend/lib/myerrors"
	"github.com/tablefare/cateringbackend/lib/myhttp"
	"github.com/tablefare/cateringbackend/lib/mylog"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/lib/myuuid"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

func NewWebService(visitStore mystore.Store[Visit], nower mytime.Nower, uuider myuuid.UUIDer) *webService {
	logger := mylog.New("visitors")

	return &webService{
		logger:  logger,
		service: newService(visitStore, nower, uuider, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/api/visits", s.registerVisitPage()).Methods("POST")
	router.HandleFunc("/api/visits", myhttp.PreflightHandler()).Methods("OPTIONS")
	router.HandleFunc("/api/visits", s.listVisitsPage()).Methods("GET")
	router.HandleFunc("/api/visits/summary", s.visitSummaryPage()).Methods("GET")
}

func (s *webService) registerVisitPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		myhttp.AddCORSHeaders(w)

		request := visitRequest{}
		err := json.NewDecoder(r.Body).Decode(&request)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("error parsing request body: %s", err)))
			return
		}
		if request.UserAgent == "" {
			request.UserAgent = r.UserAgent()
		}

		visit, err := s.service.registerVisit(c, request)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, visit)
	}
}

func (s *webService) listVisitsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		visits, err := s.service.listVisits(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, visits)
	}
}

func (s *webService) visitSummaryPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		summaries, err := s.service.summarizeVisits(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, summaries)
	}
}
