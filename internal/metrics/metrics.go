package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the churn predictor.
type Metrics struct {
	Predictions       *prometheus.CounterVec
	Advisories        prometheus.Counter
	InferenceErrors   *prometheus.CounterVec
	InferenceDuration prometheus.Histogram
	PublishFailures   prometheus.Counter
}

// New creates the collectors and registers them with reg.
// Tests pass a fresh prometheus.NewRegistry() to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Predictions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "churn_predictions_total",
			Help: "Total number of churn predictions served, by label",
		}, []string{"label"}),
		Advisories: f.NewCounter(prometheus.CounterOpts{
			Name: "churn_advisories_total",
			Help: "Total number of predictions that carried a high-risk advisory",
		}),
		InferenceErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "churn_inference_errors_total",
			Help: "Total number of failed predictions, by reason",
		}, []string{"reason"}),
		InferenceDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "churn_inference_duration_seconds",
			Help:    "Time spent inside the classifier",
			Buckets: prometheus.DefBuckets,
		}),
		PublishFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "churn_retention_publish_failures_total",
			Help: "Total number of retention events that could not be queued",
		}),
	}
}
