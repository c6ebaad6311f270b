// service/crypto/crypto_service_test.go
package cryptosvc_test

import (
	"context"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/InkaFilipinka/scooter-website-sub000/config"
	"github.com/InkaFilipinka/scooter-website-sub000/model"
	bookingrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/booking"
	inventoryrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/inventory"
	bookingsvc "github.com/InkaFilipinka/scooter-website-sub000/service/booking"
	cryptosvc "github.com/InkaFilipinka/scooter-website-sub000/service/crypto"
)

// --- booking store/inventory mocks ---

type storeMock struct{ bookings map[string]*model.Booking }

func newStoreMock() *storeMock { return &storeMock{bookings: map[string]*model.Booking{}} }

func (m *storeMock) Insert(ctx context.Context, b *model.Booking) error {
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

func (m *storeMock) List(ctx context.Context) ([]model.Booking, error) { return nil, nil }

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
	delete(m.bookings, id)
	return nil
}

type invMock struct{ available int }

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
	return m.available, nil
}

// --- chain/rates/notifier mocks ---

// chainMock counts every RPC-shaped call so tests can assert the validation
// chain never reached the contract when an earlier layer failed.
type chainMock struct {
	decimals  int
	balance   *big.Int
	confirmed bool

	decimalsCalls int
	balanceCalls  int
	confirmCalls  int
}

func (m *chainMock) TokenDecimals(ctx context.Context, chain string) (int, error) {
	m.decimalsCalls++
	return m.decimals, nil
}

func (m *chainMock) BalanceOf(ctx context.Context, chain, wallet string) (*big.Int, error) {
	m.balanceCalls++
	return new(big.Int).Set(m.balance), nil
}

func (m *chainMock) TransferConfirmed(ctx context.Context, chain, txHash string) (bool, error) {
	m.confirmCalls++
	return m.confirmed, nil
}

func (m *chainMock) calls() int { return m.decimalsCalls + m.balanceCalls + m.confirmCalls }

type ratesMock struct {
	rate float64
	live bool
	err  error
}

func (m *ratesMock) PHPToUSD(ctx context.Context) (float64, bool, error) {
	return m.rate, m.live, m.err
}

type notifierMock struct {
	claimed map[string]bool
	pushes  int
}

func newNotifierMock() *notifierMock { return &notifierMock{claimed: map[string]bool{}} }

func (m *notifierMock) Claim(ctx context.Context, bookingID, eventType string) (bool, error) {
	key := bookingID + "/" + eventType
	if m.claimed[key] {
		return false, nil
	}
	m.claimed[key] = true
	return true, nil
}

func (m *notifierMock) Push(ctx context.Context, title, message string) error {
	m.pushes++
	return nil
}

// --- fixtures ---

var day0 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

var testChains = map[string]config.Chain{
	"polygon": {
		Name:             "Polygon",
		TokenContract:    "0x3c499c542cef5e3811e1192ce70d8cc03d5c3359",
		ExpectedDecimals: 6,
	},
}

func seedBooking(t *testing.T, store *storeMock, inv *invMock, method model.PaymentMethod) (bookingsvc.Service, *model.Booking) {
	t.Helper()
	bookings := bookingsvc.New(store, inv, slog.Default())
	b, err := bookings.Create(context.Background(), bookingsvc.CreateReq{
		ID:            "1709251200000",
		Name:          "Ana Cruz",
		Email:         "ana@example.com",
		Phone:         "+639171234567",
		ScooterID:     "honda-click-125",
		Quantity:      1,
		StartDate:     day0,
		EndDate:       day0.AddDate(0, 0, 5), // 5 days at 400 → total 2000
		Insurance:     model.InsuranceNone,
		PaymentOption: model.PayFull,
		PaymentMethod: method,
		Timestamp:     day0,
	})
	require.NoError(t, err)
	return bookings, b
}

func newSvc(bookings bookingsvc.Service, chain *chainMock, rates *ratesMock, notif *notifierMock) cryptosvc.Service {
	return cryptosvc.New(bookings, chain, rates, notif, testChains, 6,
		"0xoperatorwallet", slog.Default())
}

// --- tests ---

func TestGetQuote_HappyPath(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	bookings, b := seedBooking(t, store, inv, model.MethodCrypto)
	chain := &chainMock{decimals: 6, balance: big.NewInt(100_000_000)}
	s := newSvc(bookings, chain, &ratesMock{rate: 0.0172, live: true}, newNotifierMock())

	q, err := s.GetQuote(context.Background(), b.ID, "polygon", "0xcustomer")
	require.NoError(t, err)

	// 2000 PHP × 0.0172 × 1.06 fee = 36.4640 tokens
	require.Equal(t, int64(2000), q.FiatAmount)
	require.Equal(t, "36.464000", q.TokenAmount)
	require.Equal(t, 6, q.Decimals)
	require.Equal(t, "36464000", q.BaseUnits)
	require.True(t, q.RateLive)
	require.Equal(t, "0xoperatorwallet", q.Recipient)
	require.Equal(t, testChains["polygon"].TokenContract, q.Contract)
}

func TestGetQuote_StaleRateStillQuotes(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	bookings, b := seedBooking(t, store, inv, model.MethodCrypto)
	chain := &chainMock{decimals: 6, balance: big.NewInt(100_000_000)}
	s := newSvc(bookings, chain, &ratesMock{rate: 0.0172, live: false}, newNotifierMock())

	q, err := s.GetQuote(context.Background(), b.ID, "polygon", "0xcustomer")
	require.NoError(t, err)
	require.False(t, q.RateLive)
}

func TestGetQuote_ZeroRateNeverReachesChain(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	bookings, b := seedBooking(t, store, inv, model.MethodCrypto)
	chain := &chainMock{decimals: 6, balance: big.NewInt(100_000_000)}
	s := newSvc(bookings, chain, &ratesMock{rate: 0, live: true}, newNotifierMock())

	_, err := s.GetQuote(context.Background(), b.ID, "polygon", "0xcustomer")
	require.Equal(t, cryptosvc.ErrExchangeRate, cryptosvc.Code(err))
	require.Contains(t, err.Error(), "not a positive number")
	require.Equal(t, 0, chain.calls())
}

func TestGetQuote_BelowMinimumNeverReachesChain(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	bookings, b := seedBooking(t, store, inv, model.MethodCrypto)
	chain := &chainMock{decimals: 6, balance: big.NewInt(100_000_000)}
	// a broken feed quoting a near-zero rate must not produce a dust transfer
	s := newSvc(bookings, chain, &ratesMock{rate: 0.000001, live: true}, newNotifierMock())

	_, err := s.GetQuote(context.Background(), b.ID, "polygon", "0xcustomer")
	require.Equal(t, cryptosvc.ErrMinimumAmount, cryptosvc.Code(err))
	require.Contains(t, err.Error(), "only pay gas")
	require.Equal(t, 0, chain.calls())
}

func TestGetQuote_DecimalsMismatch(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	bookings, b := seedBooking(t, store, inv, model.MethodCrypto)
	chain := &chainMock{decimals: 18, balance: big.NewInt(100_000_000)}
	s := newSvc(bookings, chain, &ratesMock{rate: 0.0172, live: true}, newNotifierMock())

	_, err := s.GetQuote(context.Background(), b.ID, "polygon", "0xcustomer")
	require.Equal(t, cryptosvc.ErrBaseUnits, cryptosvc.Code(err))
	require.Contains(t, err.Error(), "expected 6")
	require.Equal(t, 0, chain.balanceCalls)
}

func TestGetQuote_InsufficientBalance(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	bookings, b := seedBooking(t, store, inv, model.MethodCrypto)
	chain := &chainMock{decimals: 6, balance: big.NewInt(1_000_000)} // 1 token
	s := newSvc(bookings, chain, &ratesMock{rate: 0.0172, live: true}, newNotifierMock())

	_, err := s.GetQuote(context.Background(), b.ID, "polygon", "0xcustomer")
	require.Equal(t, cryptosvc.ErrWalletBalance, cryptosvc.Code(err))
	require.Contains(t, err.Error(), "needs 36464000")
}

func TestGetQuote_Rejections(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	bookings, b := seedBooking(t, store, inv, model.MethodCard)
	chain := &chainMock{decimals: 6, balance: big.NewInt(100_000_000)}
	s := newSvc(bookings, chain, &ratesMock{rate: 0.0172, live: true}, newNotifierMock())

	_, err := s.GetQuote(context.Background(), b.ID, "polygon", "0xcustomer")
	require.Equal(t, cryptosvc.ErrWrongRail, cryptosvc.Code(err))

	_, err = s.GetQuote(context.Background(), "missing", "polygon", "0xcustomer")
	require.Equal(t, cryptosvc.ErrNotFound, cryptosvc.Code(err))

	store2, inv2 := newStoreMock(), &invMock{available: 4}
	bookings2, b2 := seedBooking(t, store2, inv2, model.MethodCrypto)
	s2 := newSvc(bookings2, chain, &ratesMock{rate: 0.0172, live: true}, newNotifierMock())
	_, err = s2.GetQuote(context.Background(), b2.ID, "dogechain", "0xcustomer")
	require.Equal(t, cryptosvc.ErrBadChain, cryptosvc.Code(err))
	require.Equal(t, 0, chain.calls())
}

func TestConfirmTransfer(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	bookings, b := seedBooking(t, store, inv, model.MethodCrypto)
	chain := &chainMock{decimals: 6, balance: big.NewInt(100_000_000)}
	notif := newNotifierMock()
	s := newSvc(bookings, chain, &ratesMock{rate: 0.0172, live: true}, notif)

	// receipt not final yet: nothing changes, caller retries
	_, err := s.ConfirmTransfer(context.Background(), b.ID, "polygon", "0xabc123")
	require.Equal(t, cryptosvc.ErrUnconfirmed, cryptosvc.Code(err))
	got, err := bookings.Get(context.Background(), b.ID)
	require.NoError(t, err)
	require.Equal(t, model.BookingPending, got.Status)
	require.Equal(t, 0, notif.pushes)

	chain.confirmed = true
	got, err = s.ConfirmTransfer(context.Background(), b.ID, "polygon", "0xabc123")
	require.NoError(t, err)
	require.Equal(t, model.BookingConfirmed, got.Status)
	require.Equal(t, int64(2000), got.AmountPaid)
	require.Equal(t, "Crypto", got.PaymentMethodLbl)
	require.Equal(t, "0xabc123", got.PaymentReference)
	require.NotNil(t, got.PaidAt)
	require.Equal(t, 1, notif.pushes)

	// re-submitting the same hash is a no-op
	confirms := chain.confirmCalls
	got, err = s.ConfirmTransfer(context.Background(), b.ID, "polygon", "0xabc123")
	require.NoError(t, err)
	require.Equal(t, model.BookingConfirmed, got.Status)
	require.Equal(t, confirms, chain.confirmCalls)
	require.Equal(t, 1, notif.pushes)
}

func TestConfirmTransfer_MissingHash(t *testing.T) {
	store, inv := newStoreMock(), &invMock{available: 4}
	bookings, b := seedBooking(t, store, inv, model.MethodCrypto)
	chain := &chainMock{decimals: 6, balance: big.NewInt(100_000_000), confirmed: true}
	s := newSvc(bookings, chain, &ratesMock{rate: 0.0172, live: true}, newNotifierMock())

	_, err := s.ConfirmTransfer(context.Background(), b.ID, "polygon", "")
	require.Equal(t, cryptosvc.ErrUnconfirmed, cryptosvc.Code(err))
	require.Equal(t, 0, chain.confirmCalls)
}
