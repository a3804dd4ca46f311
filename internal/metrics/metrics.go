package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "colegio", Name: "api_requests_total", Help: "Handled API requests",
	}, []string{"route", "status"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "colegio", Name: "handler_errors_total", Help: "Handler errors",
	})
	PromotionOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "colegio", Name: "promotion_outcomes_total", Help: "Promotion decisions by outcome",
	}, []string{"outcome"})
	PeriodsClosed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "colegio", Name: "periods_closed_total", Help: "Closed grading periods",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "colegio", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(APIRequests, HandlerErrors, PromotionOutcomes, PeriodsClosed, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
