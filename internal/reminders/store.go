package reminders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("reminder not found")

type Store struct {
	DB *sql.DB
}

// Insert assigns an id and creation time and stores rec for userID.
func (s Store) Insert(ctx context.Context, userID int, rec *Reminder, now time.Time) error {
	rec.ID = uuid.NewString()
	rec.CreatedAt = now.UTC()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO reminders (
			id, user_id, task, date_kind, date_raw, day, time_of_day,
			notes, source, starts_at, calendar_url, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, rec.ID, userID, rec.Task, rec.DateKind, rec.DateRaw, rec.Day, rec.Time,
		rec.Notes, string(rec.Source), rec.StartsAt.UnixMilli(), rec.CalendarURL, rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

// List returns the user's reminders, newest first.
func (s Store) List(ctx context.Context, userID int) ([]Reminder, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, task, date_kind, date_raw, day, time_of_day,
		       notes, source, starts_at, calendar_url, created_at
		FROM reminders
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	out := []Reminder{}
	for rows.Next() {
		var (
			rec       Reminder
			source    string
			startsAt  int64
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.Task, &rec.DateKind, &rec.DateRaw, &rec.Day, &rec.Time,
			&rec.Notes, &source, &startsAt, &rec.CalendarURL, &createdAt); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		rec.Source = Source(source)
		rec.StartsAt = time.UnixMilli(startsAt).UTC()
		rec.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iter reminders: %w", err)
	}
	return out, nil
}

func (s Store) Delete(ctx context.Context, userID int, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
