package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicetracker-backend/internal/voice"
)

func TestOutcome(t *testing.T) {
	t.Run("Should classify every extraction error", func(t *testing.T) {
		assert.Equal(t, OutcomeOK, Outcome(nil))
		assert.Equal(t, OutcomeEmpty, Outcome(voice.ErrEmptyTranscript))
		assert.Equal(t, OutcomeIncomplete, Outcome(&voice.IncompleteReminderError{MissingFields: []string{voice.FieldTime}}))
		assert.Equal(t, OutcomeRejected, Outcome(fmt.Errorf("wrap: %w", &voice.TransactionParseError{RawInput: "x"})))
		assert.Equal(t, OutcomeError, Outcome(errors.New("boom")))
	})
}

func TestPrometheusObserver(t *testing.T) {
	t.Run("Should count outcomes and missing fields", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		o, err := NewPrometheusObserver("", reg)
		require.NoError(t, err)

		o.RecordExtraction(KindReminder, time.Millisecond, nil)
		o.RecordExtraction(KindReminder, time.Millisecond, &voice.IncompleteReminderError{
			MissingFields: []string{voice.FieldDate, voice.FieldTime},
		})
		o.RecordExtraction(KindTransaction, time.Millisecond, &voice.TransactionParseError{RawInput: "x"})

		assert.Equal(t, 1.0, testutil.ToFloat64(o.extractions.WithLabelValues(KindReminder, OutcomeOK)))
		assert.Equal(t, 1.0, testutil.ToFloat64(o.extractions.WithLabelValues(KindReminder, OutcomeIncomplete)))
		assert.Equal(t, 1.0, testutil.ToFloat64(o.extractions.WithLabelValues(KindTransaction, OutcomeRejected)))
		assert.Equal(t, 1.0, testutil.ToFloat64(o.missing.WithLabelValues(voice.FieldTime)))
		assert.Equal(t, 0.0, testutil.ToFloat64(o.missing.WithLabelValues(voice.FieldTask)))
		assert.Equal(t, 2, testutil.CollectAndCount(o.duration))
	})

	t.Run("Should reuse collectors registered twice", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		first, err := NewPrometheusObserver("vt", reg)
		require.NoError(t, err)
		second, err := NewPrometheusObserver("vt", reg)
		require.NoError(t, err)

		second.RecordExtraction(KindReminder, 0, nil)
		assert.Equal(t, 1.0, testutil.ToFloat64(first.extractions.WithLabelValues(KindReminder, OutcomeOK)))
	})

	t.Run("Should ignore a nil observer", func(t *testing.T) {
		var o *PrometheusObserver
		assert.NotPanics(t, func() { o.RecordExtraction(KindReminder, 0, nil) })
		assert.NotPanics(t, func() { Nop().RecordExtraction(KindReminder, 0, nil) })
	})
}
