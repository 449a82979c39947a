package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Signups = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "portal", Name: "signups_total", Help: "Created accounts",
	})
	KidRegistrations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal", Name: "kid_registrations_total", Help: "Kid registrations by sport",
	}, []string{"sport"})
	CoachSubmissions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "portal", Name: "coach_submissions_total", Help: "Coach applications",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "portal", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(Signups, KidRegistrations, CoachSubmissions, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
