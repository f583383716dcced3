package catalog

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
	"github.com/tablefare/cateringbackend/lib/mypublisher"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/lib/myuuid"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(itemStore mystore.Store[MenuItem], modifierStore mystore.Store[Modifier], nower mytime.Nower, uuider myuuid.UUIDer, publisher mypublisher.Publisher) *webService {
	logger := mylog.New("catalog")

	return &webService{
		logger:  logger,
		service: newService(itemStore, modifierStore, nower, uuider, logger, publisher),
	}
}

// Reader exposes the read-only catalog view used by the checkout flow.
func (s *webService) Reader() Reader {
	return s.service
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	// Public menu for the storefront
	router.HandleFunc("/api/catalog/menu", s.menuPage()).Methods("GET")
	router.HandleFunc("/api/catalog/menu", myhttp.PreflightHandler()).Methods("OPTIONS")

	// Back-office catalog management
	router.HandleFunc("/api/catalog/items", s.listMenuItemsPage()).Methods("GET")
	router.HandleFunc("/api/catalog/items", s.upsertMenuItemPage()).Methods("POST")
	router.HandleFunc("/api/catalog/items/{itemUID}", s.getMenuItemPage()).Methods("GET")
	router.HandleFunc("/api/catalog/items/{itemUID}", s.upsertMenuItemPage()).Methods("PUT")
	router.HandleFunc("/api/catalog/items/{itemUID}", s.deleteMenuItemPage()).Methods("DELETE")

	router.HandleFunc("/api/catalog/modifiers", s.listModifiersPage()).Methods("GET")
	router.HandleFunc("/api/catalog/modifiers", s.upsertModifierPage()).Methods("POST")
	router.HandleFunc("/api/catalog/modifiers/{modifierUID}", s.upsertModifierPage()).Methods("PUT")
	router.HandleFunc("/api/catalog/modifiers/{modifierUID}", s.deleteModifierPage()).Methods("DELETE")

	return s.service.CreateTopics(c)
}

type menuResponse struct {
	Items     []MenuItem `json:"items"`
	Modifiers []Modifier `json:"modifiers"`
}

func (s *webService) menuPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		myhttp.AddCORSHeaders(w)

		items, err := s.service.listMenuItems(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		modifiers, err := s.service.listModifiers(c)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, menuResponse{
			Items:     items,
			Modifiers: modifiers,
		})
	}
}

func (s *webService) listMenuItemsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		items, err := s.service.listMenuItems(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, items)
	}
}

func (s *webService) getMenuItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		item, err := s.service.getMenuItem(c, mux.Vars(r)["itemUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, item)
	}
}

func (s *webService) upsertMenuItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		item := MenuItem{}
		err := json.NewDecoder(r.Body).Decode(&item)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("error parsing menu item: %s", err)))
			return
		}

		if uid := mux.Vars(r)["itemUID"]; uid != "" {
			item.UID = uid
		}

		stored, err := s.service.upsertMenuItem(c, item)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, stored)
	}
}

func (s *webService) deleteMenuItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := s.service.deleteMenuItem(c, mux.Vars(r)["itemUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{})
	}
}

func (s *webService) listModifiersPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		modifiers, err := s.service.listModifiers(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, modifiers)
	}
}

func (s *webService) upsertModifierPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		modifier := Modifier{}
		err := json.NewDecoder(r.Body).Decode(&modifier)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("error parsing modifier: %s", err)))
			return
		}

		if uid := mux.Vars(r)["modifierUID"]; uid != "" {
			modifier.UID = uid
		}

		stored, err := s.service.upsertModifier(c, modifier)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, stored)
	}
}

func (s *webService) deleteModifierPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := s.service.deleteModifier(c, mux.Vars(r)["modifierUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{})
	}
}
