// repository/inventory/repo.go
package inventoryrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/InkaFilipinka/scooter-website-sub000/model"
)

// ErrNoCapacity is the expected outcome of a decrement against insufficient
// stock. Callers treat it as a business result, not a fault.
var ErrNoCapacity = errors.New("insufficient inventory")

// Repo owns the single inventory_pool row. Decrement and Increment are each
// a single guarded UPDATE, so two concurrent bookings can never oversell:
// the check and the write happen in one statement.
type Repo interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, value int) (int, error)
	Decrement(ctx context.Context, by int) (int, error)
	Increment(ctx context.Context, by int) (int, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Get(ctx context.Context) (int, error) {
	const q = `SELECT available FROM inventory_pool WHERE id = 1`
	var n int
	err := r.db.QueryRowContext(ctx, q).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return r.seed(ctx)
	}
	return n, err
}

// seed initialises the pool to the full fleet on first read.
func (r *repo) seed(ctx context.Context) (int, error) {
	const q = `
INSERT INTO inventory_pool (id, available)
VALUES (1, $1)
ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, q, model.MaxFleet); err != nil {
		return 0, err
	}
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT available FROM inventory_pool WHERE id = 1`).Scan(&n)
	return n, err
}

func (r *repo) Set(ctx context.Context, value int) (int, error) {
	if value < 0 {
		value = 0
	}
	if value > model.MaxFleet {
		value = model.MaxFleet
	}
	const q = `
INSERT INTO inventory_pool (id, available)
VALUES (1, $1)
ON CONFLICT (id) DO UPDATE SET available = EXCLUDED.available
RETURNING available`
	var n int
	err := r.db.QueryRowContext(ctx, q, value).Scan(&n)
	return n, err
}

func (r *repo) Decrement(ctx context.Context, by int) (int, error) {
	if by <= 0 {
		return 0, errors.New("decrement must be positive")
	}
	if _, err := r.Get(ctx); err != nil { // make sure the row exists
		return 0, err
	}
	const q = `
UPDATE inventory_pool
SET available = available - $1
WHERE id = 1
  AND available >= $1
RETURNING available`
	var n int
	err := r.db.QueryRowContext(ctx, q, by).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoCapacity
	}
	return n, err
}

func (r *repo) Increment(ctx context.Context, by int) (int, error) {
	if by <= 0 {
		return 0, errors.New("increment must be positive")
	}
	if _, err := r.Get(ctx); err != nil {
		return 0, err
	}
	const q = `
UPDATE inventory_pool
SET available = LEAST(available + $1, $2)
WHERE id = 1
RETURNING available`
	var n int
	err := r.db.QueryRowContext(ctx, q, by, model.MaxFleet).Scan(&n)
	return n, err
}
