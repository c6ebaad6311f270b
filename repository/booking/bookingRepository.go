// repository/booking/repo.go
package bookingrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/InkaFilipinka/scooter-website-sub000/model"
)

var (
	ErrNotFound  = errors.New("booking not found")
	ErrDuplicate = errors.New("booking id already exists")
)

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Status           *model.BookingStatus
	AmountPaid       *int64
	PaymentMethodLbl *string
	PaymentReference *string
	PaidAt           *time.Time
}

type Repo interface {
	Insert(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context) ([]model.Booking, error)
	ApplyPatch(ctx context.Context, id string, p Patch) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const bookingCols = `
id, name, email, phone, scooter_id, quantity, start_date, end_date,
delivery, delivery_distance_km, delivery_place, delivery_lat, delivery_lng,
insurance, add_ons, surf_rack, payment_option, payment_method,
total, amount_paid, payment_method_lbl, payment_reference, paid_at,
status, created_at`

func (r *repo) Insert(ctx context.Context, b *model.Booking) error {
	addOns, err := json.Marshal(b.AddOns)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO bookings (` + bookingCols + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)`
	_, err = r.db.ExecContext(ctx, q,
		b.ID, b.Name, b.Email, b.Phone, b.ScooterID, b.Quantity, b.StartDate, b.EndDate,
		b.Delivery, b.DeliveryDistanceKm, b.DeliveryPlace, b.DeliveryLat, b.DeliveryLng,
		b.Insurance, addOns, b.SurfRack, b.PaymentOption, b.PaymentMethod,
		b.Total, b.AmountPaid, b.PaymentMethodLbl, b.PaymentReference, b.PaidAt,
		b.Status, b.Timestamp,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *repo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *repo) List(ctx context.Context) ([]model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *repo) ApplyPatch(ctx context.Context, id string, p Patch) (*model.Booking, error) {
	const q = `
UPDATE bookings
SET status             = COALESCE($2, status),
    amount_paid        = COALESCE($3, amount_paid),
    payment_method_lbl = COALESCE($4, payment_method_lbl),
    payment_reference  = COALESCE($5, payment_reference),
    paid_at            = COALESCE($6, paid_at)
WHERE id = $1
RETURNING ` + bookingCols
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id,
		p.Status, p.AmountPaid, p.PaymentMethodLbl, p.PaymentReference, p.PaidAt))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *repo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
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

func scanBooking(row rowScanner) (*model.Booking, error) {
	var b model.Booking
	var addOns []byte
	if err := row.Scan(
		&b.ID, &b.Name, &b.Email, &b.Phone, &b.ScooterID, &b.Quantity, &b.StartDate, &b.EndDate,
		&b.Delivery, &b.DeliveryDistanceKm, &b.DeliveryPlace, &b.DeliveryLat, &b.DeliveryLng,
		&b.Insurance, &addOns, &b.SurfRack, &b.PaymentOption, &b.PaymentMethod,
		&b.Total, &b.AmountPaid, &b.PaymentMethodLbl, &b.PaymentReference, &b.PaidAt,
		&b.Status, &b.Timestamp,
	); err != nil {
		return nil, err
	}
	if len(addOns) > 0 {
		if err := json.Unmarshal(addOns, &b.AddOns); err != nil {
			return nil, err
		}
	}
	return &b, nil
}
