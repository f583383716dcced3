package orders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/tablefare/cateringbackend/lib/mypublisher"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/services/orders/orderevents"
)

func TestOrderService(t *testing.T) {

	t.Run("List orders newest first", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, _ := setup(t, ctrl)

		// given
		_ = storer.Put(ctx, "cs_old", Order{UID: "uuid-old", SessionUID: "cs_old", CreatedAt: mytime.ExampleTime})
		_ = storer.Put(ctx, "cs_new", Order{UID: "uuid-new", SessionUID: "cs_new", CreatedAt: mytime.ExampleTime.Add(time.Hour)})

		// when
		request, err := http.NewRequest(http.MethodGet, "/api/orders", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		body := response.Body.String()
		assert.Less(t, strings.Index(body, "uuid-new"), strings.Index(body, "uuid-old"))
	})

	t.Run("Get order by session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, _ := setup(t, ctrl)

		// given
		_ = storer.Put(ctx, "cs_123", Order{UID: "uuid-1", SessionUID: "cs_123", CustomerName: "Jane Doe"})

		// when
		request, err := http.NewRequest(http.MethodGet, "/api/orders/cs_123", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), "Jane Doe")
	})

	t.Run("Get unknown order fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodGet, "/api/orders/cs_ghost", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 404, response.Code)
	})

	t.Run("Move paid order to preparing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, nower, publisher := setup(t, ctrl)

		// given
		_ = storer.Put(ctx, "cs_123", Order{UID: "uuid-1", SessionUID: "cs_123", Status: OrderStatusPaid})
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		publisher.EXPECT().Publish(gomock.Any(), orderevents.TopicName, orderevents.OrderStatusChanged{
			OrderUID:   "uuid-1",
			SessionUID: "cs_123",
			OldStatus:  "paid",
			NewStatus:  "preparing",
		}).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodPut, "/api/orders/cs_123/status/preparing", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		order, _, _ := storer.Get(ctx, "cs_123")
		assert.Equal(t, OrderStatusPreparing, order.Status)
		assert.Equal(t, mytime.ExampleTime, *order.LastModified)
	})

	t.Run("Re-applying the current status is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, nower, _ := setup(t, ctrl)

		// given: no publish expected
		_ = storer.Put(ctx, "cs_123", Order{UID: "uuid-1", SessionUID: "cs_123", Status: OrderStatusPreparing})
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		request, err := http.NewRequest(http.MethodPut, "/api/orders/cs_123/status/preparing", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		order, _, _ := storer.Get(ctx, "cs_123")
		assert.Nil(t, order.LastModified)
	})

	t.Run("Skipping lifecycle steps is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, nower, _ := setup(t, ctrl)

		// given
		_ = storer.Put(ctx, "cs_123", Order{UID: "uuid-1", SessionUID: "cs_123", Status: OrderStatusPaid})
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when: paid straight to delivered
		request, err := http.NewRequest(http.MethodPut, "/api/orders/cs_123/status/delivered", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 400, response.Code)
		order, _, _ := storer.Get(ctx, "cs_123")
		assert.Equal(t, OrderStatusPaid, order.Status)
	})

	t.Run("Unknown status is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodPut, "/api/orders/cs_123/status/shipped", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Export orders as csv", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, _ := setup(t, ctrl)

		// given
		_ = storer.Put(ctx, "cs_123", Order{
			UID:           "uuid-1",
			SessionUID:    "cs_123",
			CustomerName:  "Jane Doe",
			CustomerEmail: "jane@example.com",
			Items: []OrderItem{
				{Name: "Barbacoa Burrito", Quantity: 2, UnitAmount: 6.75, LineTotal: 13.50},
			},
			Subtotal:  13.50,
			Total:     13.50,
			Currency:  "usd",
			Status:    OrderStatusPaid,
			CreatedAt: mytime.ExampleTime,
		})

		// when
		request, err := http.NewRequest(http.MethodGet, "/api/orders/export/csv", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Equal(t, "text/csv", response.Header().Get("Content-Type"))
		assert.Contains(t, response.Body.String(), "uuid-1;cs_123;2026-03-14 12:30:00;paid;Jane Doe;jane@example.com")
		assert.Contains(t, response.Body.String(), "2 x Barbacoa Burrito")
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[Order], *mytime.MockNower, *mypublisher.MockPublisher) {
	c := context.TODO()
	storer, _, _ := mystore.New[Order](c)
	nower := mytime.NewMockNower(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)

	sut := NewWebService(storer, nower, publisher)
	router := mux.NewRouter()

	// This is called by the following call to RegisterEndpoints
	publisher.EXPECT().CreateTopic(c, orderevents.TopicName).Return(nil)

	err := sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return c, router, storer, nower, publisher
}
