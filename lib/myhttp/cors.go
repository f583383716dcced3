package myhttp

import "net/http"

// AddCORSHeaders opens an endpoint up to browser clients on any origin.
// The storefront runs on a different origin than this backend.
func AddCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type, stripe-signature")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
}

// PreflightHandler answers CORS preflight requests with an empty 200.
func PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		AddCORSHeaders(w)
		w.WriteHeader(http.StatusOK)
	}
}
