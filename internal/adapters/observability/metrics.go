package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "realty", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "realty", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "realty", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "realty", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "realty", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	SlotEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "realty", Name: "slot_events_total", Help: "Durable slot reads and writes."},
		[]string{"backend", "event"}, // event: hit|miss|put|error
	)
	CatalogMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "realty", Name: "catalog_mutations_total", Help: "Catalog add/update/delete outcomes."},
		[]string{"op", "result"}, // result: ok|unmatched|error
	)
	CatalogLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "realty", Name: "catalog_loads_total", Help: "Catalog loads by source."},
		[]string{"source"}, // source: slot|defaults
	)
	MortgageCalcs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "realty", Name: "mortgage_calculations_total", Help: "Mortgage calculations."},
		[]string{"result"},
	)
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "realty", Name: "events_published_total", Help: "Broker messages written."},
		[]string{"topic", "status"},
	)
)

// Serve starts a side listener for /metrics when addr is set.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, CacheEvents,
		SlotEvents, CatalogMutations, CatalogLoads, MortgageCalcs, EventsPublished,
	)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveSlot(backend, event string) {
	SlotEvents.WithLabelValues(backend, event).Inc()
}

func ObserveCatalogMutation(op, result string) {
	CatalogMutations.WithLabelValues(op, result).Inc()
}

func ObserveCatalogLoad(source string) {
	CatalogLoads.WithLabelValues(source).Inc()
}

func ObserveMortgage(result string) {
	MortgageCalcs.WithLabelValues(result).Inc()
}

func ObservePublish(topic string, err error) {
	EventsPublished.WithLabelValues(topic, LabelErr(err)).Inc()
}

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
