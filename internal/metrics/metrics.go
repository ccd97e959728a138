// Package metrics exports extraction telemetry to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"voicetracker-backend/internal/voice"
)

const (
	KindReminder    = "reminder"
	KindTransaction = "transaction"
)

const (
	OutcomeOK         = "ok"
	OutcomeEmpty      = "empty"
	OutcomeIncomplete = "incomplete"
	OutcomeRejected   = "rejected"
	OutcomeError      = "error"
)

// Observer captures the result of every extraction.
type Observer interface {
	RecordExtraction(kind string, duration time.Duration, err error)
}

// Outcome classifies an extraction error into a label value.
func Outcome(err error) string {
	var (
		incomplete *voice.IncompleteReminderError
		rejected   *voice.TransactionParseError
	)
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, voice.ErrEmptyTranscript):
		return OutcomeEmpty
	case errors.As(err, &incomplete):
		return OutcomeIncomplete
	case errors.As(err, &rejected):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

// PrometheusObserver exports extraction counters and latencies.
type PrometheusObserver struct {
	extractions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	missing     *prometheus.CounterVec
}

// NewPrometheusObserver registers the extraction metrics on reg. Collectors
// already registered under the same names are reused.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "voicetracker"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Extractions by kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Latency of transcript extraction.",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
		}, []string{"kind"}),
		missing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missing_fields_total",
			Help:      "Reminder fields absent from incomplete transcripts.",
		}, []string{"field"}),
	}

	var err error
	if o.extractions, err = register(reg, o.extractions); err != nil {
		return nil, err
	}
	if o.duration, err = register(reg, o.duration); err != nil {
		return nil, err
	}
	if o.missing, err = register(reg, o.missing); err != nil {
		return nil, err
	}
	return o, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register extraction metric: %w", err)
	}
	return c, nil
}

// RecordExtraction counts the outcome, observes the latency and, for
// incomplete reminders, counts each missing field.
func (o *PrometheusObserver) RecordExtraction(kind string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.duration.WithLabelValues(kind).Observe(duration.Seconds())
	o.extractions.WithLabelValues(kind, Outcome(err)).Inc()

	var incomplete *voice.IncompleteReminderError
	if errors.As(err, &incomplete) {
		for _, f := range incomplete.MissingFields {
			o.missing.WithLabelValues(f).Inc()
		}
	}
}

type nopObserver struct{}

func (nopObserver) RecordExtraction(string, time.Duration, error) {}

// Nop discards everything.
func Nop() Observer { return nopObserver{} }
