package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/tablefare/cateringbackend/lib/mypublisher"
	"github.com/tablefare/cateringbackend/lib/mypubsub"
	"github.com/tablefare/cateringbackend/lib/myqueue"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/lib/myuuid"
	"github.com/tablefare/cateringbackend/services/catalog"
	"github.com/tablefare/cateringbackend/services/checkout"
	"github.com/tablefare/cateringbackend/services/notifications"
	"github.com/tablefare/cateringbackend/services/orders"
	"github.com/tablefare/cateringbackend/services/quotes"
	"github.com/tablefare/cateringbackend/services/visitors"
)

func main() {
	c := context.Background()

	router := mux.NewRouter()

	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating task queue: %s", err)
	}
	defer queueCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower, uuider)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	itemStore, itemStoreCleanup, err := mystore.New[catalog.MenuItem](c)
	if err != nil {
		log.Fatalf("Error creating menu-item store: %s", err)
	}
	defer itemStoreCleanup()

	modifierStore, modifierStoreCleanup, err := mystore.New[catalog.Modifier](c)
	if err != nil {
		log.Fatalf("Error creating modifier store: %s", err)
	}
	defer modifierStoreCleanup()

	catalogService := catalog.NewWebService(itemStore, modifierStore, nower, uuider, publisher)
	err = catalogService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering catalog service: %s", err)
	}

	orderStore, orderStoreCleanup, err := mystore.New[orders.Order](c)
	if err != nil {
		log.Fatalf("Error creating order store: %s", err)
	}
	defer orderStoreCleanup()

	orderService := orders.NewWebService(orderStore, nower, publisher)
	err = orderService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering order service: %s", err)
	}

	checkoutService, err := checkout.NewWebService(
		os.Getenv("STRIPE_API_KEY"),
		catalogService.Reader(),
		checkout.NewPayer(),
		checkout.NewVerifier(os.Getenv("STRIPE_WEBHOOK_SECRET")),
		orderStore,
		nower,
		uuider,
		publisher)
	if err != nil {
		log.Fatalf("Error creating checkout service: %s", err)
	}
	checkoutService.RegisterEndpoints(c, router)

	createVisitorService(c, router, nower, uuider)
	createQuoteService(c, router, nower, uuider, publisher)
	createNotificationService(c, router, pubsub, nower, uuider)

	startWebServerBlocking(router)
}

func createVisitorService(c context.Context, router *mux.Router, nower mytime.Nower, uuider myuuid.UUIDer) {
	visitStore, _, err := mystore.New[visitors.Visit](c)
	if err != nil {
		log.Fatalf("Error creating visit store: %s", err)
	}

	visitors.NewWebService(visitStore, nower, uuider).RegisterEndpoints(c, router)
}

func createQuoteService(c context.Context, router *mux.Router, nower mytime.Nower, uuider myuuid.UUIDer, publisher mypublisher.Publisher) {
	quoteStore, _, err := mystore.New[quotes.QuoteRequest](c)
	if err != nil {
		log.Fatalf("Error creating quote store: %s", err)
	}

	quoteService, err := quotes.NewWebService(quoteStore, nower, uuider, publisher)
	if err != nil {
		log.Fatalf("Error creating quote service: %s", err)
	}
	quoteService.RegisterEndpoints(c, router)
}

func createNotificationService(c context.Context, router *mux.Router, pubsub mypubsub.PubSub, nower mytime.Nower, uuider myuuid.UUIDer) {
	confirmationStore, _, err := mystore.New[notifications.Confirmation](c)
	if err != nil {
		log.Fatalf("Error creating confirmation store: %s", err)
	}

	notificationService := notifications.NewWebService(confirmationStore, pubsub, externalHostname(), nower, uuider)
	err = notificationService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering notification service: %s", err)
	}
}

func externalHostname() string {
	hostname := os.Getenv("EXTERNAL_HOSTNAME")
	if hostname == "" {
		hostname = "http://localhost:8080"
	}

	return hostname
}

func startWebServerBlocking(router *mux.Router) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
