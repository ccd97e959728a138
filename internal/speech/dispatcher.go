// Package speech routes speech-recognition segments to the extraction core.
package speech

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"voicetracker-backend/internal/calendar"
	"voicetracker-backend/internal/logger"
	"voicetracker-backend/internal/metrics"
	"voicetracker-backend/internal/voice"
)

type Kind string

const (
	KindReminder Kind = "reminder"
	KindExpense  Kind = "expense"
)

// Segment is one recognizer event. Interim segments carry partial text and
// are never extracted.
type Segment struct {
	Seq        int       `json:"seq"`
	Kind       Kind      `json:"kind"`
	Text       string    `json:"text"`
	Notes      string    `json:"notes,omitempty"`
	Final      bool      `json:"final"`
	ReceivedAt time.Time `json:"received_at"`
}

// Result is the outcome of extracting one final segment. Exactly one of
// Reminder or Transaction is set when Err is nil.
type Result struct {
	Segment     Segment
	Reminder    *voice.Reminder
	Event       *calendar.Event
	Transaction *voice.Transaction
	Err         error
}

// Dispatcher runs final segments through the core. It holds no mutable
// state, so a single value may serve any number of goroutines.
type Dispatcher struct {
	Encoder calendar.Encoder
	Metrics metrics.Observer
	Log     logger.Logger
}

func (d Dispatcher) observer() metrics.Observer {
	if d.Metrics == nil {
		return metrics.Nop()
	}
	return d.Metrics
}

func (d Dispatcher) log(ctx context.Context) logger.Logger {
	if d.Log == nil {
		return logger.FromContext(ctx)
	}
	return d.Log
}

// Handle extracts a final segment. It reports false for interim segments.
func (d Dispatcher) Handle(ctx context.Context, seg Segment) (Result, bool) {
	if !seg.Final {
		return Result{}, false
	}
	res := Result{Segment: seg}
	started := time.Now()

	switch seg.Kind {
	case KindReminder:
		r, err := voice.ParseReminder(seg.Text, seg.Notes)
		d.observer().RecordExtraction(metrics.KindReminder, time.Since(started), err)
		if err != nil {
			res.Err = err
			break
		}
		ev := d.Encoder.Encode(r)
		res.Reminder, res.Event = &r, &ev
	case KindExpense:
		now := seg.ReceivedAt
		if now.IsZero() {
			now = time.Now()
		}
		tx, err := voice.ParseTransaction(seg.Text, now)
		d.observer().RecordExtraction(metrics.KindTransaction, time.Since(started), err)
		if err != nil {
			res.Err = err
			break
		}
		res.Transaction = &tx
	default:
		res.Err = &UnknownKindError{Kind: seg.Kind}
	}

	d.log(ctx).Debug("segment extracted",
		"seq", seg.Seq,
		"kind", seg.Kind,
		"outcome", metrics.Outcome(res.Err),
		"length", len(seg.Text),
	)
	return res, true
}

// Run fans final segments from in out to workers goroutines and delivers
// their results on out. It returns when in is closed and drained, or when
// ctx is cancelled. Results are not ordered; use Segment.Seq.
func (d Dispatcher) Run(ctx context.Context, in <-chan Segment, out chan<- Result, workers int) error {
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case seg, ok := <-in:
					if !ok {
						return nil
					}
					res, final := d.Handle(ctx, seg)
					if !final {
						continue
					}
					select {
					case out <- res:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
			}
		})
	}
	return g.Wait()
}

type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return "unknown segment kind: " + string(e.Kind)
}
