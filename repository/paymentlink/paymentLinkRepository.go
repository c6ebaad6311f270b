// repository/paymentlink/repo.go
package paymentlinkrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/InkaFilipinka/scooter-website-sub000/model"
)

var ErrNotFound = errors.New("payment link not found")

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Status        *model.PaymentLinkStatus
	PaidAt        *time.Time
	PaymentMethod *string
	TransactionID *string
}

type Repo interface {
	Insert(ctx context.Context, l *model.PaymentLink) error
	GetByID(ctx context.Context, id string) (*model.PaymentLink, error)
	List(ctx context.Context) ([]model.PaymentLink, error)
	ApplyPatch(ctx context.Context, id string, p Patch) (*model.PaymentLink, error)
	// MarkExpired flips a still-pending link to expired; a concurrent
	// payment that already flipped the status wins.
	MarkExpired(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const linkCols = `
id, amount, description, customer_name, customer_email,
created_at, expires_at, status, paid_at, payment_method, transaction_id`

func (r *repo) Insert(ctx context.Context, l *model.PaymentLink) error {
	const q = `
INSERT INTO payment_links (` + linkCols + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := r.db.ExecContext(ctx, q,
		l.ID, l.Amount, l.Description, l.CustomerName, l.CustomerEmail,
		l.CreatedAt, l.ExpiresAt, l.Status, l.PaidAt, l.PaymentMethod, l.TransactionID,
	)
	return err
}

func (r *repo) GetByID(ctx context.Context, id string) (*model.PaymentLink, error) {
	const q = `SELECT ` + linkCols + ` FROM payment_links WHERE id = $1`
	l, err := scanLink(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return l, err
}

func (r *repo) List(ctx context.Context) ([]model.PaymentLink, error) {
	const q = `SELECT ` + linkCols + ` FROM payment_links ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PaymentLink
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *repo) ApplyPatch(ctx context.Context, id string, p Patch) (*model.PaymentLink, error) {
	const q = `
UPDATE payment_links
SET status         = COALESCE($2, status),
    paid_at        = COALESCE($3, paid_at),
    payment_method = COALESCE($4, payment_method),
    transaction_id = COALESCE($5, transaction_id)
WHERE id = $1
RETURNING ` + linkCols
	l, err := scanLink(r.db.QueryRowContext(ctx, q, id,
		p.Status, p.PaidAt, p.PaymentMethod, p.TransactionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return l, err
}

func (r *repo) MarkExpired(ctx context.Context, id string) error {
	const q = `
UPDATE payment_links
SET status = 'expired'
WHERE id = $1
  AND status = 'pending'`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func (r *repo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payment_links WHERE id = $1`, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanLink(row rowScanner) (*model.PaymentLink, error) {
	var l model.PaymentLink
	if err := row.Scan(
		&l.ID, &l.Amount, &l.Description, &l.CustomerName, &l.CustomerEmail,
		&l.CreatedAt, &l.ExpiresAt, &l.Status, &l.PaidAt, &l.PaymentMethod, &l.TransactionID,
	); err != nil {
		return nil, err
	}
	return &l, nil
}
