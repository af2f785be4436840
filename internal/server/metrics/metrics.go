// Package metrics exposes Prometheus instrumentation for the server. A nil
// *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stockkeeper"

type Recorder struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	sales           *prometheus.CounterVec
	stockRejections prometheus.Counter
	logins          *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "grpc_requests_total", Help: "Handled gRPC requests"},
			[]string{"method", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "grpc_request_duration_seconds",
				Help:      "gRPC handling time",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method"},
		),
		sales: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "sales_recorded_total", Help: "Recorded sales"},
			[]string{"shift"},
		),
		stockRejections: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "stock_rejections_total", Help: "Decrements refused for insufficient stock"},
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "logins_total", Help: "Login attempts"},
			[]string{"result"},
		),
	}

	for _, c := range []prometheus.Collector{r.requests, r.requestDuration, r.sales, r.stockRejections, r.logins} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) ObserveRequest(method, code string, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, code).Inc()
	r.requestDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (r *Recorder) SaleRecorded(shift string) {
	if r == nil {
		return
	}
	r.sales.WithLabelValues(shift).Inc()
}

func (r *Recorder) StockRejected() {
	if r == nil {
		return
	}
	r.stockRejections.Inc()
}

// Login counts attempts by result: ok, 2fa_required or failed.
func (r *Recorder) Login(result string) {
	if r == nil {
		return
	}
	r.logins.WithLabelValues(result).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
