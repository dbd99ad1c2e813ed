// Package metrics defines the score service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "globe_score_requests_total",
		Help: "Total API requests by route pattern and status code",
	}, []string{"route", "code"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "globe_score_request_duration_ms",
		Help:    "API request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	ScoresSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "globe_score_submitted_total",
		Help: "Total scores submitted",
	})
	NewBestTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "globe_score_new_best_total",
		Help: "Total submissions that raised a user's best score",
	})
	LocationsSavedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "globe_score_locations_saved_total",
		Help: "Total locations saved",
	})
	LocateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "globe_score_locate_total",
		Help: "GeoIP lookups by result",
	}, []string{"result"})
	StoreErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "globe_score_store_errors_total",
		Help: "Store failures by operation",
	}, []string{"op"})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(ScoresSubmittedTotal)
	prometheus.MustRegister(NewBestTotal)
	prometheus.MustRegister(LocationsSavedTotal)
	prometheus.MustRegister(LocateTotal)
	prometheus.MustRegister(StoreErrorsTotal)
}

// Handler serves the registered collectors for scraping.
func Handler() http.Handler { return promhttp.Handler() }
