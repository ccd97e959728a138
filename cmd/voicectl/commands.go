package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"voicetracker-backend/internal/calendar"
	"voicetracker-backend/internal/logger"
	"voicetracker-backend/internal/speech"
	"voicetracker-backend/internal/voice"
)

func ReminderCmd() *cobra.Command {
	var (
		notes   string
		baseURL string
	)
	cmd := &cobra.Command{
		Use:   "reminder <transcript>",
		Short: "Resolve a spoken reminder and print its calendar link",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := voice.ParseReminder(strings.Join(args, " "), notes)
			if err != nil {
				return err
			}
			ev := calendar.Encoder{}.Encode(r)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Görev: %s\n", r.Task)
			fmt.Fprintf(out, "Tarih: %s (%s)\n", ev.Start.Format("02.01.2006"), r.Date.Raw)
			fmt.Fprintf(out, "Saat:  %s\n", r.Time)
			if r.Notes != "" {
				fmt.Fprintf(out, "Not:   %s\n", r.Notes)
			}
			fmt.Fprintln(out, calendar.GoogleURL(baseURL, ev))
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "Notes to attach as event details")
	cmd.Flags().StringVar(&baseURL, "calendar-url", "", "Calendar template base URL")
	return cmd
}

func ExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expense <transcript>",
		Short: "Extract an expense from a spoken delivery note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := voice.ParseTransaction(strings.Join(args, " "), time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Miktar:   %d\n", tx.Quantity)
			fmt.Fprintf(out, "Ürün:     %s\n", tx.Product)
			fmt.Fprintf(out, "Şirket:   %s\n", tx.Company)
			fmt.Fprintf(out, "Fiyat:    %s TL\n", tx.Price.StringFixed(2))
			fmt.Fprintf(out, "Ödeme:    %s\n", tx.PaymentMethod.Label())
			return nil
		},
	}
}

func BatchCmd() *cobra.Command {
	var (
		kind    string
		file    string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Parse one transcript per line concurrently",
		RunE: func(cmd *cobra.Command, args []string) error {
			k := speech.Kind(kind)
			if k != speech.KindReminder && k != speech.KindExpense {
				return fmt.Errorf("--kind must be %q or %q", speech.KindReminder, speech.KindExpense)
			}
			in := io.Reader(cmd.InOrStdin())
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runBatch(cmd.Context(), in, cmd.OutOrStdout(), k, workers)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(speech.KindReminder), "Transcript kind: reminder or expense")
	cmd.Flags().StringVar(&file, "file", "-", "Input file, one transcript per line (- for stdin)")
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent extractions")
	return cmd
}

type batchLine struct {
	Line        int                `json:"line"`
	Reminder    *voice.Reminder    `json:"reminder,omitempty"`
	Event       *calendar.Event    `json:"event,omitempty"`
	Transaction *voice.Transaction `json:"transaction,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// runBatch feeds every non-blank line through the dispatcher and writes one
// JSON object per line in input order.
func runBatch(ctx context.Context, in io.Reader, out io.Writer, kind speech.Kind, workers int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.FromContext(ctx)
	d := speech.Dispatcher{Log: log}

	segments := make(chan speech.Segment)
	results := make(chan speech.Result)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(segments)
		sc := bufio.NewScanner(in)
		line := 0
		for sc.Scan() {
			line++
			text := strings.TrimSpace(sc.Text())
			if text == "" {
				continue
			}
			seg := speech.Segment{Seq: line, Kind: kind, Text: text, Final: true, ReceivedAt: time.Now()}
			select {
			case segments <- seg:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return sc.Err()
	})
	g.Go(func() error {
		defer close(results)
		return d.Run(ctx, segments, results, workers)
	})

	var collected []speech.Result
	g.Go(func() error {
		for res := range results {
			collected = append(collected, res)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].Segment.Seq < collected[j].Segment.Seq })
	enc := json.NewEncoder(out)
	failed := 0
	for _, res := range collected {
		line := batchLine{Line: res.Segment.Seq, Reminder: res.Reminder, Event: res.Event, Transaction: res.Transaction}
		if res.Err != nil {
			line.Error = res.Err.Error()
			failed++
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	log.Info("batch finished", "total", len(collected), "failed", failed)
	return nil
}
