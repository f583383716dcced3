package orders

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tablefare/cateringbackend/lib/mycontext"
	"github.com/tablefare/cateringbackend/lib/myerrors"
	"github.com/tablefare/cateringbackend/lib/myhttp"
	"github.com/tablefare/cateringbackend/lib/mylog"
	"github.com/tablefare/cateringbackend/lib/mypublisher"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(orderStore mystore.Store[Order], nower mytime.Nower, publisher mypublisher.Publisher) *webService {
	logger := mylog.New("orders")

	return &webService{
		logger:  logger,
		service: newService(orderStore, nower, logger, publisher),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/orders", s.listOrdersPage()).Methods("GET")
	router.HandleFunc("/api/orders/export/csv", s.exportOrdersPage()).Methods("GET")
	router.HandleFunc("/api/orders/{sessionUID}", s.getOrderPage()).Methods("GET")
	router.HandleFunc("/api/orders/{sessionUID}/status/{status}", s.updateStatusPage()).Methods("PUT")

	return s.service.CreateTopics(c)
}

func (s *webService) listOrdersPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orders, err := s.service.listOrders(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, orders)
	}
}

func (s *webService) getOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		order, err := s.service.getOrder(c, mux.Vars(r)["sessionUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, order)
	}
}

func (s *webService) updateStatusPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		status, ok := ParseOrderStatus(mux.Vars(r)["status"])
		if !ok {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputErrorf("unknown order status %s", mux.Vars(r)["status"]))
			return
		}

		order, err := s.service.updateStatus(c, mux.Vars(r)["sessionUID"], status)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, order)
	}
}

func (s *webService) exportOrdersPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orders, err := s.service.listOrders(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=orders.csv")
		err = writeOrdersCSV(w, orders)
		if err != nil {
			s.logger.Log(c, "", mylog.SeverityError, "Error writing csv export: %s", err)
		}
	}
}
