package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/tablefare/cateringbackend/lib/mylog"
	"github.com/tablefare/cateringbackend/lib/mypublisher"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/lib/myuuid"
	"github.com/tablefare/cateringbackend/services/catalog/catalogevents"
)

func TestCatalogService(t *testing.T) {

	t.Run("Create menu item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, itemStore, _, nower, uuider, publisher := setup(t, ctrl)

		// given
		uuider.EXPECT().Create().Return("item-1")
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		publisher.EXPECT().Publish(gomock.Any(), catalogevents.TopicName, catalogevents.MenuItemChanged{
			ItemUID:     "item-1",
			Name:        "Barbacoa Burrito",
			Operation:   "created",
			IsAvailable: true,
		}).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/catalog/items",
			strings.NewReader(`{"Name": "Barbacoa Burrito", "Price": 6.00, "Category": "mains", "IsAvailable": true}`))
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)

		item, exists, _ := itemStore.Get(ctx, "item-1")
		assert.True(t, exists)
		assert.Equal(t, "Barbacoa Burrito", item.Name)
		assert.Equal(t, 6.00, item.Price)
		assert.True(t, item.IsAvailable)
		assert.Equal(t, mytime.ExampleTime, item.CreatedAt)
		assert.Nil(t, item.LastModified)
	})

	t.Run("Update menu item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, itemStore, _, nower, _, publisher := setup(t, ctrl)

		// given
		_ = itemStore.Put(ctx, "item-1", MenuItem{UID: "item-1", Name: "Barbacoa Burrito", Price: 6.00, IsAvailable: true})
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		publisher.EXPECT().Publish(gomock.Any(), catalogevents.TopicName, catalogevents.MenuItemChanged{
			ItemUID:   "item-1",
			Name:      "Barbacoa Burrito",
			Operation: "updated",
		}).Return(nil)

		// when: price raised, item taken off the menu
		request, err := http.NewRequest(http.MethodPut, "/api/catalog/items/item-1",
			strings.NewReader(`{"Name": "Barbacoa Burrito", "Price": 7.50, "IsAvailable": false}`))
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)

		item, _, _ := itemStore.Get(ctx, "item-1")
		assert.Equal(t, 7.50, item.Price)
		assert.False(t, item.IsAvailable)
		assert.Equal(t, mytime.ExampleTime, *item.LastModified)
	})

	t.Run("Create menu item without name fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, itemStore, _, _, _, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/catalog/items",
			strings.NewReader(`{"Price": 6.00}`))
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 400, response.Code)
		stored, _ := itemStore.List(ctx)
		assert.Empty(t, stored)
	})

	t.Run("Create menu item with negative price fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/catalog/items",
			strings.NewReader(`{"Name": "Barbacoa Burrito", "Price": -1.00}`))
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Delete menu item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, itemStore, _, _, _, publisher := setup(t, ctrl)

		// given
		_ = itemStore.Put(ctx, "item-1", MenuItem{UID: "item-1", Name: "Barbacoa Burrito"})
		publisher.EXPECT().Publish(gomock.Any(), catalogevents.TopicName, catalogevents.MenuItemChanged{
			ItemUID:   "item-1",
			Name:      "Barbacoa Burrito",
			Operation: "deleted",
		}).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodDelete, "/api/catalog/items/item-1", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		_, exists, _ := itemStore.Get(ctx, "item-1")
		assert.False(t, exists)
	})

	t.Run("Delete unknown menu item fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodDelete, "/api/catalog/items/item-ghost", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 404, response.Code)
	})

	t.Run("Public menu lists items and modifiers", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, itemStore, modifierStore, _, _, _ := setup(t, ctrl)

		// given
		_ = itemStore.Put(ctx, "item-1", MenuItem{UID: "item-1", Name: "Barbacoa Burrito", Category: "mains", IsAvailable: true})
		_ = modifierStore.Put(ctx, "mod-1", Modifier{UID: "mod-1", Name: "Extra Guacamole", GroupName: "extras", IsAvailable: true})

		// when
		request, err := http.NewRequest(http.MethodGet, "/api/catalog/menu", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Equal(t, "*", response.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, response.Body.String(), "Barbacoa Burrito")
		assert.Contains(t, response.Body.String(), "Extra Guacamole")
	})

	t.Run("Get menu items by ids skips unknown ids", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, sut, itemStore, _, _, _, _ := setupService(t, ctrl)

		// given
		_ = itemStore.Put(ctx, "item-1", MenuItem{UID: "item-1", Name: "Barbacoa Burrito"})
		_ = itemStore.Put(ctx, "item-2", MenuItem{UID: "item-2", Name: "Carnitas Tacos"})

		// when
		items, err := sut.GetMenuItemsByIDs(ctx, []string{"item-2", "item-ghost"})

		// then
		assert.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, "Carnitas Tacos", items[0].Name)
	})

	t.Run("Get menu items with empty id list touches nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, sut, _, _, _, _, _ := setupService(t, ctrl)

		// when
		items, err := sut.GetMenuItemsByIDs(ctx, []string{})

		// then
		assert.NoError(t, err)
		assert.Empty(t, items)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[MenuItem], mystore.Store[Modifier], *mytime.MockNower, *myuuid.MockUUIDer, *mypublisher.MockPublisher) {
	c := context.TODO()
	itemStore, _, _ := mystore.New[MenuItem](c)
	modifierStore, _, _ := mystore.New[Modifier](c)
	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)

	sut := NewWebService(itemStore, modifierStore, nower, uuider, publisher)
	router := mux.NewRouter()

	// This is called by the following call to RegisterEndpoints
	publisher.EXPECT().CreateTopic(c, catalogevents.TopicName).Return(nil)

	err := sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return c, router, itemStore, modifierStore, nower, uuider, publisher
}

func setupService(t *testing.T, ctrl *gomock.Controller) (context.Context, *service, mystore.Store[MenuItem], mystore.Store[Modifier], *mytime.MockNower, *myuuid.MockUUIDer, *mypublisher.MockPublisher) {
	c := context.TODO()
	itemStore, _, _ := mystore.New[MenuItem](c)
	modifierStore, _, _ := mystore.New[Modifier](c)
	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)

	sut := newService(itemStore, modifierStore, nower, uuider, mylog.New("catalog"), publisher)

	return c, sut, itemStore, modifierStore, nower, uuider, publisher
}
