package bridge

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	loggingpkg "github.com/hostwire/hostwire/internal/bridge/logging"
)

// Metrics holds the Prometheus instruments shared by the bridge components.
// Attach one instance to the bus, outbound channel, and router of a bridge
// context; pass nil registerer to use the default registry.
type Metrics struct {
	Published             prometheus.Counter
	CallbackPanics        prometheus.Counter
	Violations            *prometheus.CounterVec
	RetryQueueDepth       prometheus.Gauge
	DroppedMessages       prometheus.Counter
	CapabilityInvocations *prometheus.CounterVec
}

// NewMetrics registers the bridge instruments on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Published: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hostwire",
			Subsystem: "bus",
			Name:      "events_published_total",
			Help:      "Events dispatched through the local event bus.",
		}),
		CallbackPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hostwire",
			Subsystem: "bus",
			Name:      "callback_panics_total",
			Help:      "Subscriber callbacks that panicked during dispatch.",
		}),
		Violations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hostwire",
			Subsystem: "router",
			Name:      "contract_violations_total",
			Help:      "Contract violations recorded by the message router.",
		}, []string{"kind"}),
		RetryQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "hostwire",
			Subsystem: "outbound",
			Name:      "retry_queue_depth",
			Help:      "Messages currently waiting in the outbound retry queue.",
		}),
		DroppedMessages: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hostwire",
			Subsystem: "outbound",
			Name:      "messages_dropped_total",
			Help:      "Outbound messages dropped by queue overflow or retry exhaustion.",
		}),
		CapabilityInvocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hostwire",
			Subsystem: "router",
			Name:      "capability_invocations_total",
			Help:      "Capability handlers executed by the message router.",
		}, []string{"capability"}),
	}
}

// ServeMetrics exposes reg on /metrics at the given port. The server runs on
// its own goroutine; pass nil gatherer to expose the default registry.
func ServeMetrics(port int, reg prometheus.Gatherer, log loggingpkg.ServiceLogger) {
	if log == nil {
		log = loggingpkg.NopLogger()
	}
	if reg == nil {
		reg = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	addr := fmt.Sprintf(":%d", port)
	log.Info("Starting metrics server", loggingpkg.LogFields{"address": addr})
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("Failed to start metrics server", err, loggingpkg.LogFields{"address": addr})
		}
	}()
}
