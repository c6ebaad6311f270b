package bookingsvc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	bookingrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/booking"
	inventoryrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/inventory"

	"github.com/InkaFilipinka/scooter-website-sub000/model"
	pricingsvc "github.com/InkaFilipinka/scooter-website-sub000/service/pricing"
)

// errors used by controllers

type ErrCode string

const (
	ErrValidation    ErrCode = "VALIDATION"
	ErrNoCapacity    ErrCode = "NO_CAPACITY"
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrDuplicate     ErrCode = "DUPLICATE_ID"
	ErrBadTransition ErrCode = "BAD_TRANSITION"
	ErrPersistence   ErrCode = "PERSISTENCE"
)

type codedError struct {
	code   ErrCode
	reason string
}

func (e codedError) Error() string {
	if e.reason != "" {
		return string(e.code) + ": " + e.reason
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode           { return e.code }
func makeErr(c ErrCode, reason string) error { return codedError{code: c, reason: reason} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// CreateReq carries everything the customer supplies. ID and Timestamp are
// generated client-side at form-submit time. Total is NOT accepted from the
// client: it is recomputed here so the stored contract price is
// server-derived.
type CreateReq struct {
	ID    string
	Name  string
	Email string
	Phone string

	ScooterID string
	Quantity  int
	StartDate time.Time
	EndDate   time.Time

	Delivery           bool
	DeliveryDistanceKm float64
	DeliveryPlace      string
	DeliveryLat        *float64
	DeliveryLng        *float64

	Insurance model.InsuranceTier
	AddOns    []string
	SurfRack  bool

	PaymentOption model.PaymentOption
	PaymentMethod model.PaymentMethod

	Timestamp time.Time
}

// PatchReq mirrors the mutable payment-progress subset of a booking.
type PatchReq struct {
	Status           *model.BookingStatus
	AmountPaid       *int64
	PaymentMethodLbl *string
	PaymentReference *string
	PaidAt           *time.Time
}

type Availability struct {
	Available  int  `json:"available"`
	AtCapacity bool `json:"atCapacity"`
}

type Store interface {
	Insert(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context) ([]model.Booking, error)
	ApplyPatch(ctx context.Context, id string, p bookingrepo.Patch) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
}

type Inventory interface {
	Get(ctx context.Context) (int, error)
	Decrement(ctx context.Context, by int) (int, error)
	Increment(ctx context.Context, by int) (int, error)
}

type Service interface {
	// Create reserves inventory and persists the booking, compensating the
	// ledger if the persist step fails.
	Create(ctx context.Context, req CreateReq) (*model.Booking, error)
	Get(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context) ([]model.Booking, error)
	// Availability reports the global pool regardless of the requested
	// range; per-date-range overlap accounting is not implemented.
	Availability(ctx context.Context) (*Availability, error)
	Patch(ctx context.Context, id string, req PatchReq) (*model.Booking, error)
	// Delete removes the record. It does NOT restore inventory; physical
	// restocking is an admin action on the pool itself.
	Delete(ctx context.Context, id string) error
}

type service struct {
	store Store
	inv   Inventory
	log   *slog.Logger
}

func New(store Store, inv Inventory, log *slog.Logger) Service {
	return &service{store: store, inv: inv, log: log}
}

func (s *service) Create(ctx context.Context, req CreateReq) (*model.Booking, error) {
	if req.ID == "" {
		return nil, makeErr(ErrValidation, "missing id")
	}
	if req.Timestamp.IsZero() {
		return nil, makeErr(ErrValidation, "missing timestamp")
	}
	if req.Name == "" || req.Email == "" || req.Phone == "" {
		return nil, makeErr(ErrValidation, "missing contact fields")
	}
	switch req.PaymentOption {
	case model.PayFull, model.PayDeposit, model.PayPickup:
	default:
		return nil, makeErr(ErrValidation, "unknown payment option")
	}
	switch req.PaymentMethod {
	case model.MethodCard, model.MethodCrypto:
	case model.MethodGCash:
		return nil, makeErr(ErrValidation, "gcash payments are disabled")
	default:
		return nil, makeErr(ErrValidation, "unknown payment method")
	}

	quote, err := pricingsvc.Compute(pricingsvc.Input{
		ScooterID:          req.ScooterID,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Insurance:          req.Insurance,
		Delivery:           req.Delivery,
		DeliveryDistanceKm: req.DeliveryDistanceKm,
		AddOnIDs:           req.AddOns,
	})
	if err != nil {
		return nil, makeErr(ErrValidation, err.Error())
	}

	qty := model.ClampQuantity(req.Quantity)

	// Inventory is committed at intent, not at payment success. The
	// decrement is a single guarded store operation, so two concurrent
	// creates cannot both take the last unit.
	if _, err := s.inv.Decrement(ctx, qty); err != nil {
		if errors.Is(err, inventoryrepo.ErrNoCapacity) {
			return nil, makeErr(ErrNoCapacity, "not enough scooters for those dates, reduce quantity or pick different dates")
		}
		return nil, err
	}

	b := &model.Booking{
		ID:                 req.ID,
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		ScooterID:          req.ScooterID,
		Quantity:           qty,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Delivery:           req.Delivery,
		DeliveryDistanceKm: req.DeliveryDistanceKm,
		DeliveryPlace:      req.DeliveryPlace,
		DeliveryLat:        req.DeliveryLat,
		DeliveryLng:        req.DeliveryLng,
		Insurance:          req.Insurance,
		AddOns:             req.AddOns,
		SurfRack:           req.SurfRack,
		PaymentOption:      req.PaymentOption,
		PaymentMethod:      req.PaymentMethod,
		Total:              quote.Total,
		AmountPaid:         0,
		Status:             model.BookingPending,
		Timestamp:          req.Timestamp,
	}

	if err := s.store.Insert(ctx, b); err != nil {
		// Compensate: the units were taken but no booking exists. Never
		// leave the ledger decremented without a record behind it.
		if _, rbErr := s.inv.Increment(ctx, qty); rbErr != nil {
			s.log.Error("inventory rollback failed after insert error",
				"booking_id", req.ID, "quantity", qty, "err", rbErr)
		}
		if errors.Is(err, bookingrepo.ErrDuplicate) {
			return nil, makeErr(ErrDuplicate, "booking id already exists")
		}
		return nil, makeErr(ErrPersistence, "could not save booking")
	}
	return b, nil
}

func (s *service) Get(ctx context.Context, id string) (*model.Booking, error) {
	b, err := s.store.GetByID(ctx, id)
	if errors.Is(err, bookingrepo.ErrNotFound) {
		return nil, makeErr(ErrNotFound, "booking not found")
	}
	return b, err
}

func (s *service) List(ctx context.Context) ([]model.Booking, error) {
	return s.store.List(ctx)
}

func (s *service) Availability(ctx context.Context) (*Availability, error) {
	n, err := s.inv.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &Availability{Available: n, AtCapacity: n == 0}, nil
}

func (s *service) Patch(ctx context.Context, id string, req PatchReq) (*model.Booking, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		to := *req.Status
		switch to {
		case model.BookingPending, model.BookingConfirmed, model.BookingCompleted, model.BookingCancelled:
		default:
			return nil, makeErr(ErrValidation, "unknown status")
		}
		if !b.Status.CanTransition(to) {
			return nil, makeErr(ErrBadTransition, string(b.Status)+" → "+string(to))
		}
	}

	updated, err := s.store.ApplyPatch(ctx, id, bookingrepo.Patch{
		Status:           req.Status,
		AmountPaid:       req.AmountPaid,
		PaymentMethodLbl: req.PaymentMethodLbl,
		PaymentReference: req.PaymentReference,
		PaidAt:           req.PaidAt,
	})
	if errors.Is(err, bookingrepo.ErrNotFound) {
		return nil, makeErr(ErrNotFound, "booking not found")
	}
	return updated, err
}

func (s *service) Delete(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, bookingrepo.ErrNotFound) {
		return makeErr(ErrNotFound, "booking not found")
	}
	return err
}
