package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	StatusLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dr_dashboard",
		Name:      "status_loads_total",
		Help:      "Total status loads by result (loaded, failed)",
	}, []string{"result"})

	FailoverRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dr_dashboard",
		Name:      "failover_requests_total",
		Help:      "Total failover requests by result (declined, succeeded, failed)",
	}, []string{"result"})

	BusyRejections = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dr_dashboard",
		Name:      "busy_rejections_total",
		Help:      "Total operator actions rejected because another action was in flight",
	})

	Loading = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dr_dashboard",
		Name:      "loading",
		Help:      "1 while a backend request is in flight, else 0",
	})
)

// Register registers metrics into the default Prometheus registry (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(StatusLoads)
		prometheus.MustRegister(FailoverRequests)
		prometheus.MustRegister(BusyRejections)
		prometheus.MustRegister(Loading)
	})
}
