package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"voicetracker-backend/internal/voice"
)

var ErrNotFound = errors.New("entry not found")

type Store struct {
	DB *sql.DB
}

// Insert assigns an id and stores e for userID. A zero CreatedAt is set to now.
func (s Store) Insert(ctx context.Context, userID int, e *Entry) error {
	e.ID = uuid.NewString()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO transactions (
			id, user_id, kind, quantity, product, company, price,
			payment_method, payment_detail, description, source, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, e.ID, userID, string(e.Kind), e.Quantity, e.Product, e.Company, e.Price.String(),
		string(e.PaymentMethod), e.PaymentDetail, e.Description, string(e.Source), e.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", e.Kind, err)
	}
	return nil
}

// List returns the user's entries of kind in storage order.
func (s Store) List(ctx context.Context, userID int, kind Kind) ([]Entry, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, kind, quantity, product, company, price,
		       payment_method, payment_detail, description, source, created_at
		FROM transactions
		WHERE user_id = $1 AND kind = $2
	`, userID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var (
			e                    Entry
			kindStr, method, src string
			price                string
			createdAt            int64
		)
		if err := rows.Scan(&e.ID, &kindStr, &e.Quantity, &e.Product, &e.Company, &price,
			&method, &e.PaymentDetail, &e.Description, &src, &createdAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		if e.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("entry %s price: %w", e.ID, err)
		}
		e.Kind = Kind(kindStr)
		e.PaymentMethod = voice.PaymentMethod(method)
		e.Source = Source(src)
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iter %s: %w", kind, err)
	}
	return out, nil
}

func (s Store) Delete(ctx context.Context, userID int, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes every entry of kind and reports how many were removed.
func (s Store) Clear(ctx context.Context, userID int, kind Kind) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = $1 AND kind = $2`, userID, string(kind))
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", kind, err)
	}
	return res.RowsAffected()
}
