package visitors

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

	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/lib/myuuid"
)

func TestVisitorService(t *testing.T) {

	t.Run("Register visit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, nower, uuider := setup(t, ctrl)

		// given
		uuider.EXPECT().Create().Return("visit-1")
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/visits", strings.NewReader(`{"path": "/menu", "referrer": "https://www.google.com"}`))
		assert.NoError(t, err)
		request.Header.Set("User-Agent", "Mozilla/5.0")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)

		visit, exists, _ := storer.Get(ctx, "visit-1")
		assert.True(t, exists)
		assert.Equal(t, "/menu", visit.Path)
		assert.Equal(t, "https://www.google.com", visit.Referrer)
		assert.Equal(t, "Mozilla/5.0", visit.UserAgent)
		assert.Equal(t, mytime.ExampleTime, visit.CreatedAt)
	})

	t.Run("Register visit without path fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/visits", strings.NewReader(`{"referrer": "https://www.google.com"}`))
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 400, response.Code)
		stored, _ := storer.List(ctx)
		assert.Empty(t, stored)
	})

	t.Run("List visits newest first", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, _ := setup(t, ctrl)

		// given
		_ = storer.Put(ctx, "visit-1", Visit{UID: "visit-1", Path: "/menu", CreatedAt: mytime.ExampleTime})
		_ = storer.Put(ctx, "visit-2", Visit{UID: "visit-2", Path: "/", CreatedAt: mytime.ExampleTime.Add(time.Hour)})

		// when
		request, err := http.NewRequest(http.MethodGet, "/api/visits", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		body := response.Body.String()
		assert.Less(t, strings.Index(body, "visit-2"), strings.Index(body, "visit-1"))
	})

	t.Run("Summarize visits per path", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, _ := setup(t, ctrl)

		// given
		_ = storer.Put(ctx, "visit-1", Visit{UID: "visit-1", Path: "/menu", CreatedAt: mytime.ExampleTime})
		_ = storer.Put(ctx, "visit-2", Visit{UID: "visit-2", Path: "/menu", CreatedAt: mytime.ExampleTime})
		_ = storer.Put(ctx, "visit-3", Visit{UID: "visit-3", Path: "/", CreatedAt: mytime.ExampleTime})

		// when
		request, err := http.NewRequest(http.MethodGet, "/api/visits/summary", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `{"path":"/menu","count":2}`)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[Visit], *mytime.MockNower, *myuuid.MockUUIDer) {
	c := context.TODO()
	storer, _, _ := mystore.New[Visit](c)
	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)

	sut := NewWebService(storer, nower, uuider)
	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	return c, router, storer, nower, uuider
}
