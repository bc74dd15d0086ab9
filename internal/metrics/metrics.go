// Package metrics exposes Prometheus collectors for the conversation engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the shopassist collectors. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	transitions    *prometheus.CounterVec
	messages       *prometheus.CounterVec
	failures       *prometheus.CounterVec
	unknownOptions prometheus.Counter
	handlerSeconds *prometheus.HistogramVec
	gatherer       prometheus.Gatherer
}

// New creates a Recorder and registers its collectors with reg.
func New(reg *prometheus.Registry) *Recorder {
	r := &Recorder{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopassist",
			Name:      "flow_transitions_total",
			Help:      "Conversation flow transitions by source flow, target flow and trigger.",
		}, []string{"from", "to", "trigger"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopassist",
			Name:      "messages_total",
			Help:      "Messages appended to transcripts by sender and type.",
		}, []string{"sender", "type"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopassist",
			Name:      "collaborator_failures_total",
			Help:      "Failed calls to catalog, order, cart and ticket services.",
		}, []string{"collaborator", "op"}),
		unknownOptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shopassist",
			Name:      "unknown_options_total",
			Help:      "Option selections rejected because the value is outside the vocabulary.",
		}),
		handlerSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shopassist",
			Name:      "handler_duration_seconds",
			Help:      "Time spent handling one user action, typing delay included.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 0.75, 1, 2, 5},
		}, []string{"action", "outcome"}),
		gatherer: reg,
	}
	reg.MustRegister(r.transitions, r.messages, r.failures, r.unknownOptions, r.handlerSeconds)
	return r
}

// ObserveTransition counts a state change.
func (r *Recorder) ObserveTransition(from, to, trigger string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(from, to, trigger).Inc()
}

// ObserveMessage counts an appended message.
func (r *Recorder) ObserveMessage(sender, typ string) {
	if r == nil {
		return
	}
	r.messages.WithLabelValues(sender, typ).Inc()
}

// ObserveCollaboratorFailure counts a failed collaborator call.
func (r *Recorder) ObserveCollaboratorFailure(collaborator, op string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(collaborator, op).Inc()
}

// ObserveUnknownOption counts a rejected option value.
func (r *Recorder) ObserveUnknownOption() {
	if r == nil {
		return
	}
	r.unknownOptions.Inc()
}

// ObserveHandler records how long an action took and whether it failed.
func (r *Recorder) ObserveHandler(action string, d time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.handlerSeconds.WithLabelValues(action, outcome).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
