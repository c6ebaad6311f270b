// Package cryptosvc handles the stablecoin payment rail. Its job is mostly
// defensive: before a customer is ever handed transfer parameters, a strict
// validation chain proves the transfer would move real value. A transfer that
// succeeds on-chain while moving zero tokens ("gas only") would look like a
// paid booking with nothing collected, so every layer fails closed.
package cryptosvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/InkaFilipinka/scooter-website-sub000/config"
	"github.com/InkaFilipinka/scooter-website-sub000/model"
	chainrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/chain"
	bookingsvc "github.com/InkaFilipinka/scooter-website-sub000/service/booking"
	pricingsvc "github.com/InkaFilipinka/scooter-website-sub000/service/pricing"
)

type ErrCode string

const (
	ErrNotFound    ErrCode = "NOT_FOUND"
	ErrNotPayable  ErrCode = "NOT_PAYABLE"
	ErrWrongRail   ErrCode = "WRONG_RAIL"
	ErrBadChain    ErrCode = "BAD_CHAIN"
	ErrUnconfirmed ErrCode = "UNCONFIRMED"
	ErrChain       ErrCode = "CHAIN"

	// validation chain layers, in order
	ErrFiatAmount    ErrCode = "FIAT_AMOUNT"
	ErrExchangeRate  ErrCode = "EXCHANGE_RATE"
	ErrTokenString   ErrCode = "TOKEN_STRING"
	ErrMinimumAmount ErrCode = "MINIMUM_AMOUNT"
	ErrBaseUnits     ErrCode = "BASE_UNITS"
	ErrWalletBalance ErrCode = "WALLET_BALANCE"
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

const (
	eventPaymentConfirmed = "payment-confirmed"
	// minTokenAmount is the smallest transfer the shop accepts; anything
	// below would be indistinguishable from paying gas only.
	minTokenAmount = 0.01
)

type Rates interface {
	PHPToUSD(ctx context.Context) (rate float64, live bool, err error)
}

type Notifier interface {
	Claim(ctx context.Context, bookingID, eventType string) (bool, error)
	Push(ctx context.Context, title, message string) error
}

// Quote is a fully validated transfer intent. It is only ever produced when
// every validation layer passed; callers can hand it to a wallet as-is.
type Quote struct {
	BookingID  string  `json:"bookingId"`
	Chain      string  `json:"chain"`
	FiatAmount int64   `json:"fiatAmount"` // PHP due
	Rate       float64 `json:"rate"`       // PHP → USD
	RateLive   bool    `json:"rateLive"`
	FeePct     float64 `json:"feePct"`

	TokenAmount string `json:"tokenAmount"` // decimal string, e.g. "36.042400"
	Decimals    int    `json:"decimals"`
	BaseUnits   string `json:"baseUnits"` // integer string in contract base units
	Contract    string `json:"contract"`
	Recipient   string `json:"recipient"`
}

type Service interface {
	// GetQuote converts the booking's due amount to tokens and runs the
	// validation chain against the connected wallet. Any layer failing
	// aborts with that layer's reason; no transfer intent is returned.
	GetQuote(ctx context.Context, bookingID, chain, wallet string) (*Quote, error)
	// ConfirmTransfer verifies a submitted transaction on-chain and then
	// confirms the booking.
	ConfirmTransfer(ctx context.Context, bookingID, chain, txHash string) (*model.Booking, error)
}

type service struct {
	bookings  bookingsvc.Service
	chain     chainrepo.Repo
	rates     Rates
	notifier  Notifier
	chains    map[string]config.Chain
	feePct    float64
	recipient string
	log       *slog.Logger
}

func New(bookings bookingsvc.Service, chain chainrepo.Repo, rates Rates, notifier Notifier,
	chains map[string]config.Chain, feePct float64, recipient string, log *slog.Logger) Service {
	return &service{
		bookings:  bookings,
		chain:     chain,
		rates:     rates,
		notifier:  notifier,
		chains:    chains,
		feePct:    feePct,
		recipient: recipient,
		log:       log,
	}
}

func (s *service) GetQuote(ctx context.Context, bookingID, chain, wallet string) (*Quote, error) {
	b, err := s.payableBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	cc, ok := s.chains[chain]
	if !ok {
		return nil, makeErr(ErrBadChain, "unsupported chain "+chain)
	}
	due, err := dueAmount(b)
	if err != nil {
		return nil, err
	}

	rate, live, err := s.rates.PHPToUSD(ctx)
	if err != nil {
		return nil, makeErr(ErrExchangeRate, err.Error())
	}

	q := &Quote{
		BookingID:  bookingID,
		Chain:      chain,
		FiatAmount: due,
		Rate:       rate,
		RateLive:   live,
		FeePct:     s.feePct,
		Contract:   cc.TokenContract,
		Recipient:  s.recipient,
	}

	// layer 1: the fiat amount itself must be a positive finite number
	fiat := float64(due)
	if fiat <= 0 || math.IsInf(fiat, 0) || math.IsNaN(fiat) {
		return nil, makeErr(ErrFiatAmount, fmt.Sprintf("due amount %v is not a positive number", fiat))
	}

	// layer 2: same for the exchange rate
	if rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
		return nil, makeErr(ErrExchangeRate, fmt.Sprintf("exchange rate %v is not a positive number", rate))
	}

	// layer 3: the computed token string must not be a zero representation
	tokens := fiat * rate * (1 + s.feePct/100)
	q.TokenAmount = strconv.FormatFloat(tokens, 'f', 6, 64)
	if q.TokenAmount == "" || isZeroString(q.TokenAmount) {
		return nil, makeErr(ErrTokenString, "computed token amount is zero")
	}

	// layer 4: it must parse back to a value at or above the minimum
	parsed, err := strconv.ParseFloat(q.TokenAmount, 64)
	if err != nil || parsed < minTokenAmount {
		return nil, makeErr(ErrMinimumAmount,
			fmt.Sprintf("amount %s is below the %.2f token minimum, the transfer would only pay gas", q.TokenAmount, minTokenAmount))
	}

	// layer 5: base units via the contract's real decimals, never assumed
	decimals, err := s.chain.TokenDecimals(ctx, chain)
	if err != nil {
		return nil, makeErr(ErrBaseUnits, err.Error())
	}
	if decimals != cc.ExpectedDecimals {
		return nil, makeErr(ErrBaseUnits,
			fmt.Sprintf("contract reports %d decimals, expected %d", decimals, cc.ExpectedDecimals))
	}
	q.Decimals = decimals
	base, err := toBaseUnits(q.TokenAmount, decimals)
	if err != nil {
		return nil, makeErr(ErrBaseUnits, err.Error())
	}
	if base.Sign() <= 0 || base.Cmp(minBaseUnits(decimals)) < 0 {
		return nil, makeErr(ErrBaseUnits,
			fmt.Sprintf("amount converts to %s base units, below the minimum", base.String()))
	}
	q.BaseUnits = base.String()

	// layer 6: the wallet must actually hold the tokens
	bal, err := s.chain.BalanceOf(ctx, chain, wallet)
	if err != nil {
		return nil, makeErr(ErrWalletBalance, err.Error())
	}
	if bal.Cmp(base) < 0 {
		return nil, makeErr(ErrWalletBalance,
			fmt.Sprintf("wallet holds %s base units, needs %s", bal.String(), base.String()))
	}

	return q, nil
}

func (s *service) ConfirmTransfer(ctx context.Context, bookingID, chain, txHash string) (*model.Booking, error) {
	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, makeErr(ErrNotFound, "booking not found")
	}
	if b.Status == model.BookingConfirmed || b.Status == model.BookingCompleted {
		return b, nil // already collected, confirm is idempotent
	}
	if b.Status != model.BookingPending {
		return nil, makeErr(ErrNotPayable, "booking is "+string(b.Status))
	}
	if b.PaymentMethod != model.MethodCrypto {
		return nil, makeErr(ErrWrongRail, "booking did not choose crypto payment")
	}
	if _, ok := s.chains[chain]; !ok {
		return nil, makeErr(ErrBadChain, "unsupported chain "+chain)
	}
	if txHash == "" {
		return nil, makeErr(ErrUnconfirmed, "missing transaction hash")
	}

	confirmed, err := s.chain.TransferConfirmed(ctx, chain, txHash)
	if err != nil {
		return nil, makeErr(ErrChain, err.Error())
	}
	if !confirmed {
		return nil, makeErr(ErrUnconfirmed, "transaction not confirmed yet, retry shortly")
	}

	due, err := dueAmount(b)
	if err != nil {
		return nil, err
	}

	status := model.BookingConfirmed
	lbl := "Crypto"
	paidAt := time.Now().UTC()
	updated, err := s.bookings.Patch(ctx, bookingID, bookingsvc.PatchReq{
		Status:           &status,
		AmountPaid:       &due,
		PaymentMethodLbl: &lbl,
		PaymentReference: &txHash,
		PaidAt:           &paidAt,
	})
	if err != nil {
		return nil, err
	}

	s.notifyConfirmed(ctx, updated)
	return updated, nil
}

func (s *service) payableBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, makeErr(ErrNotFound, "booking not found")
	}
	if b.Status != model.BookingPending {
		return nil, makeErr(ErrNotPayable, "booking is "+string(b.Status))
	}
	if b.PaymentMethod != model.MethodCrypto {
		return nil, makeErr(ErrWrongRail, "booking did not choose crypto payment")
	}
	return b, nil
}

func dueAmount(b *model.Booking) (int64, error) {
	switch b.PaymentOption {
	case model.PayFull:
		return b.Total, nil
	case model.PayDeposit:
		return pricingsvc.Deposit(b.ScooterID, b.RentalDays())
	default:
		return 0, makeErr(ErrNotPayable, "pay-on-pickup bookings are collected at pickup")
	}
}

func (s *service) notifyConfirmed(ctx context.Context, b *model.Booking) {
	claimed, err := s.notifier.Claim(ctx, b.ID, eventPaymentConfirmed)
	if err != nil {
		s.log.Error("notification claim failed", "booking_id", b.ID, "err", err)
		return
	}
	if !claimed {
		return
	}
	msg := fmt.Sprintf("%s paid ₱%d for booking %s via %s", b.Name, b.AmountPaid, b.ID, b.PaymentMethodLbl)
	if err := s.notifier.Push(ctx, "Payment confirmed", msg); err != nil {
		s.log.Error("notification push failed", "booking_id", b.ID, "err", err)
	}
}

// isZeroString reports whether a decimal string denotes zero ("0", "0.000").
func isZeroString(s string) bool {
	stripped := strings.Map(func(r rune) rune {
		if r == '0' || r == '.' || r == ',' {
			return -1
		}
		return r
	}, s)
	return stripped == ""
}

// toBaseUnits converts a decimal token string into the contract's integer
// base units, truncating excess fractional digits.
func toBaseUnits(amount string, decimals int) (*big.Int, error) {
	if decimals < 0 || decimals > 36 {
		return nil, fmt.Errorf("implausible decimals %d", decimals)
	}
	intPart, frac, _ := strings.Cut(amount, ".")
	if intPart == "" {
		intPart = "0"
	}
	if len(frac) > decimals {
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", decimals-len(frac))
	n, ok := new(big.Int).SetString(intPart+frac, 10)
	if !ok {
		return nil, fmt.Errorf("cannot parse token amount %q", amount)
	}
	return n, nil
}

// minBaseUnits is minTokenAmount expressed in base units: 10^decimals / 100.
func minBaseUnits(decimals int) *big.Int {
	exp := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return exp.Div(exp, big.NewInt(100))
}
