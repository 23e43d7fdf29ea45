package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	// Metrics exposes GET /metrics.
	Metrics bool
}

// NewRouter wires the API routes and wraps them with request id, access
// logging and panic recovery.
func NewRouter(c *Controller, opts RouterOptions) http.Handler {
	r := mux.NewRouter()
	// Router middleware only sees matched routes.
	r.NotFoundHandler = instrumentUnmatched(http.HandlerFunc(c.notFoundHandler))
	r.MethodNotAllowedHandler = instrumentUnmatched(http.HandlerFunc(c.methodNotAllowedHandler))
	r.Use(instrument)

	r.HandleFunc("/users", c.CreateUserHandler).
		Methods(http.MethodPost)
	r.HandleFunc("/users", c.ListUsersHandler).
		Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", c.UserHandler).
		Methods(http.MethodGet)
	r.HandleFunc("/users/{id}/follow", c.FollowHandler).
		Methods(http.MethodPost)
	r.HandleFunc("/users/{id}/timeline", c.TimelineHandler).
		Methods(http.MethodGet)
	r.HandleFunc("/tweets", c.CreateTweetHandler).
		Methods(http.MethodPost)
	r.HandleFunc("/tweets", c.ListTweetsHandler).
		Methods(http.MethodGet)
	r.HandleFunc("/ping", c.PingHandler).
		Methods(http.MethodGet)

	if opts.Metrics {
		r.Handle("/metrics", promhttp.Handler()).
			Methods(http.MethodGet)
	}

	return requestID(accessLog(c.log)(recoverer(c.log)(r)))
}
