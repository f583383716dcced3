package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/tablefare/cateringbackend/lib/mypublisher"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/lib/myuuid"
	"github.com/tablefare/cateringbackend/services/quotes/quoteevents"
)

func TestQuoteService(t *testing.T) {

	t.Run("Submit quote request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, nower, uuider, publisher := setup(t, ctrl)

		// given
		uuider.EXPECT().Create().Return("quote-1")
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		publisher.EXPECT().Publish(gomock.Any(), quoteevents.TopicName, quoteevents.QuoteRequested{
			QuoteUID:      "quote-1",
			CustomerEmail: "jane@example.com",
			EventDate:     "2026-05-01",
			GuestCount:    40,
		}).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/quotes",
			strings.NewReader(`name=Jane+Doe&email=jane@example.com&phone=%2B14155551234&eventDate=2026-05-01&guestCount=40&message=Office+lunch`))
		assert.NoError(t, err)
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)

		quote, exists, _ := storer.Get(ctx, "quote-1")
		assert.True(t, exists)
		assert.Equal(t, "Jane Doe", quote.Name)
		assert.Equal(t, "jane@example.com", quote.Email)
		assert.Equal(t, 40, quote.GuestCount)
		assert.Equal(t, "Office lunch", quote.Message)
		assert.Equal(t, mytime.ExampleTime, quote.CreatedAt)
	})

	t.Run("Submit quote request with invalid email fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, _, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/quotes",
			strings.NewReader(`name=Jane+Doe&email=not-an-email&guestCount=40`))
		assert.NoError(t, err)
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 400, response.Code)
		stored, _ := storer.List(ctx)
		assert.Empty(t, stored)
	})

	t.Run("List quote requests", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, _, _ := setup(t, ctrl)

		// given
		_ = storer.Put(ctx, "quote-1", QuoteRequest{UID: "quote-1", Name: "Jane Doe", Email: "jane@example.com", CreatedAt: mytime.ExampleTime})

		// when
		request, err := http.NewRequest(http.MethodGet, "/api/quotes", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), "quote-1")
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[QuoteRequest], *mytime.MockNower, *myuuid.MockUUIDer, *mypublisher.MockPublisher) {
	c := context.TODO()
	storer, _, _ := mystore.New[QuoteRequest](c)
	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)

	// This is called by NewWebService
	publisher.EXPECT().CreateTopic(gomock.Any(), quoteevents.TopicName).Return(nil)

	sut, err := NewWebService(storer, nower, uuider, publisher)
	assert.NoError(t, err)

	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	return c, router, storer, nower, uuider, publisher
}
