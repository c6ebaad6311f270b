// service/booking/booking_service_test.go
package bookingsvc_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/InkaFilipinka/scooter-website-sub000/model"
	bookingrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/booking"
	inventoryrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/inventory"
	bookingsvc "github.com/InkaFilipinka/scooter-website-sub000/service/booking"
)

type storeMock struct {
	bookings map[string]*model.Booking
	insertFn func(ctx context.Context, b *model.Booking) error
}

func newStoreMock() *storeMock {
	return &storeMock{bookings: map[string]*model.Booking{}}
}

func (m *storeMock) Insert(ctx context.Context, b *model.Booking) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, b)
	}
	if _, ok := m.bookings[b.ID]; ok {
		return bookingrepo.ErrDuplicate
	}
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *storeMock) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingrepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *storeMock) List(ctx context.Context) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range m.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (m *storeMock) ApplyPatch(ctx context.Context, id string, p bookingrepo.Patch) (*model.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingrepo.ErrNotFound
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.AmountPaid != nil {
		b.AmountPaid = *p.AmountPaid
	}
	if p.PaymentMethodLbl != nil {
		b.PaymentMethodLbl = *p.PaymentMethodLbl
	}
	if p.PaymentReference != nil {
		b.PaymentReference = *p.PaymentReference
	}
	if p.PaidAt != nil {
		b.PaidAt = p.PaidAt
	}
	cp := *b
	return &cp, nil
}

func (m *storeMock) Delete(ctx context.Context, id string) error {
	if _, ok := m.bookings[id]; !ok {
		return bookingrepo.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

type invMock struct {
	available int
}

func (m *invMock) Get(ctx context.Context) (int, error) { return m.available, nil }

func (m *invMock) Decrement(ctx context.Context, by int) (int, error) {
	if by > m.available {
		return 0, inventoryrepo.ErrNoCapacity
	}
	m.available -= by
	return m.available, nil
}

func (m *invMock) Increment(ctx context.Context, by int) (int, error) {
	m.available += by
	if m.available > model.MaxFleet {
		m.available = model.MaxFleet
	}
	return m.available, nil
}

var day0 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func validReq() bookingsvc.CreateReq {
	return bookingsvc.CreateReq{
		ID:            "1709251200000",
		Name:          "Ana Cruz",
		Email:         "ana@example.com",
		Phone:         "+639171234567",
		ScooterID:     "honda-click-125",
		Quantity:      1,
		StartDate:     day0,
		EndDate:       day0.AddDate(0, 0, 3),
		Insurance:     model.InsuranceNone,
		PaymentOption: model.PayPickup,
		PaymentMethod: model.MethodCard,
		Timestamp:     day0,
	}
}

func newSvc(store *storeMock, inv *invMock) bookingsvc.Service {
	return bookingsvc.New(store, inv, slog.Default())
}

func TestCreate_ComputesTotalServerSide(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	s := newSvc(store, inv)

	b, err := s.Create(context.Background(), validReq())
	require.NoError(t, err)
	require.Equal(t, int64(3*400), b.Total) // 3 days at the 3+ tier
	require.Equal(t, model.BookingPending, b.Status)
	require.Equal(t, int64(0), b.AmountPaid)
	require.Equal(t, 3, inv.available)
}

func TestCreate_ValidationHasNoSideEffects(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	s := newSvc(store, inv)

	bad := validReq()
	bad.EndDate = bad.StartDate
	_, err := s.Create(context.Background(), bad)
	require.Equal(t, bookingsvc.ErrValidation, bookingsvc.Code(err))
	require.Equal(t, 4, inv.available)
	require.Empty(t, store.bookings)

	bad = validReq()
	bad.EndDate = bad.StartDate.AddDate(0, 0, 91)
	_, err = s.Create(context.Background(), bad)
	require.Equal(t, bookingsvc.ErrValidation, bookingsvc.Code(err))

	bad = validReq()
	bad.PaymentMethod = model.MethodGCash
	_, err = s.Create(context.Background(), bad)
	require.Equal(t, bookingsvc.ErrValidation, bookingsvc.Code(err))
	require.Equal(t, 4, inv.available)
}

func TestCreate_QuantityClamped(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	s := newSvc(store, inv)

	req := validReq()
	req.Quantity = 9
	b, err := s.Create(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, model.MaxFleet, b.Quantity)
	require.Equal(t, 0, inv.available)
}

func TestCreate_CapacityMiss(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 1}
	s := newSvc(store, inv)

	req := validReq()
	req.Quantity = 2
	_, err := s.Create(context.Background(), req)
	require.Equal(t, bookingsvc.ErrNoCapacity, bookingsvc.Code(err))
	require.Contains(t, err.Error(), "reduce quantity")
	require.Equal(t, 1, inv.available)
	require.Empty(t, store.bookings)
}

func TestCreate_CompensatesOnPersistFailure(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 3}
	store.insertFn = func(ctx context.Context, b *model.Booking) error {
		return errors.New("store unavailable")
	}
	s := newSvc(store, inv)

	req := validReq()
	req.Quantity = 2
	_, err := s.Create(context.Background(), req)
	require.Equal(t, bookingsvc.ErrPersistence, bookingsvc.Code(err))
	// full rollback: ledger equals the pre-decrement value
	require.Equal(t, 3, inv.available)
}

func TestCreate_DuplicateIDCompensates(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	s := newSvc(store, inv)

	_, err := s.Create(context.Background(), validReq())
	require.NoError(t, err)
	require.Equal(t, 3, inv.available)

	_, err = s.Create(context.Background(), validReq())
	require.Equal(t, bookingsvc.ErrDuplicate, bookingsvc.Code(err))
	require.Equal(t, 3, inv.available)
}

func TestPatch_Transitions(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	s := newSvc(store, inv)

	b, err := s.Create(context.Background(), validReq())
	require.NoError(t, err)

	confirmed := model.BookingConfirmed
	_, err = s.Patch(context.Background(), b.ID, bookingsvc.PatchReq{Status: &confirmed})
	require.NoError(t, err)

	// re-applying the same status is a no-op, not an error
	_, err = s.Patch(context.Background(), b.ID, bookingsvc.PatchReq{Status: &confirmed})
	require.NoError(t, err)

	completed := model.BookingCompleted
	got, err := s.Patch(context.Background(), b.ID, bookingsvc.PatchReq{Status: &completed})
	require.NoError(t, err)
	require.Equal(t, model.BookingCompleted, got.Status)

	// completed is terminal
	cancelled := model.BookingCancelled
	_, err = s.Patch(context.Background(), b.ID, bookingsvc.PatchReq{Status: &cancelled})
	require.Equal(t, bookingsvc.ErrBadTransition, bookingsvc.Code(err))

	pending := model.BookingPending
	_, err = s.Patch(context.Background(), b.ID, bookingsvc.PatchReq{Status: &pending})
	require.Equal(t, bookingsvc.ErrBadTransition, bookingsvc.Code(err))
}

func TestPickupEndToEnd(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	s := newSvc(store, inv)

	req := validReq()
	req.PaymentOption = model.PayPickup
	b, err := s.Create(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 3, inv.available)
	require.Equal(t, model.BookingPending, b.Status)
	require.Equal(t, int64(0), b.AmountPaid)

	// staff confirm after contacting the customer
	confirmed := model.BookingConfirmed
	got, err := s.Patch(context.Background(), b.ID, bookingsvc.PatchReq{Status: &confirmed})
	require.NoError(t, err)
	require.Equal(t, model.BookingConfirmed, got.Status)

	// deleting the record does not restore the pool
	require.NoError(t, s.Delete(context.Background(), b.ID))
	_, err = s.Get(context.Background(), b.ID)
	require.Equal(t, bookingsvc.ErrNotFound, bookingsvc.Code(err))
	require.Equal(t, 3, inv.available)
}

func TestAvailability(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	s := newSvc(store, inv)

	a, err := s.Availability(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, a.Available)
	require.False(t, a.AtCapacity)

	req := validReq()
	req.Quantity = 4
	_, err = s.Create(context.Background(), req)
	require.NoError(t, err)

	a, err = s.Availability(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, a.Available)
	require.True(t, a.AtCapacity)
}
