package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HttpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	UsersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "users_created_total",
		Help: "Total number of users created",
	})

	TweetsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tweets_created_total",
		Help: "Total number of tweets created",
	})

	Follows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "follows_total",
		Help: "Total number of follow requests by outcome",
	}, []string{"outcome"})
)
