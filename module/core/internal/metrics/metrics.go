package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SamplesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stickerwalk_samples_total",
		Help: "Total number of position samples evaluated",
	})
	SamplesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stickerwalk_samples_skipped_total",
		Help: "Ticks skipped without evaluation, by reason",
	}, []string{"reason"})
	TriggersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stickerwalk_triggers_total",
		Help: "Discovery notifications fired, by POI kind",
	}, []string{"kind"})
	CollectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stickerwalk_collections_total",
		Help: "New sticker collections inserted into the collected set",
	})
	PersistenceFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stickerwalk_persistence_failures_total",
		Help: "Collected set load/save failures",
	}, []string{"op"})
	PublishFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stickerwalk_publish_failures_total",
		Help: "UI events that could not be published",
	})
)

func init() {
	prometheus.MustRegister(SamplesTotal)
	prometheus.MustRegister(SamplesSkippedTotal)
	prometheus.MustRegister(TriggersTotal)
	prometheus.MustRegister(CollectionsTotal)
	prometheus.MustRegister(PersistenceFailuresTotal)
	prometheus.MustRegister(PublishFailuresTotal)
}

func Handler() http.Handler { return promhttp.Handler() }
