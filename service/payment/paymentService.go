package paymentsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/InkaFilipinka/scooter-website-sub000/model"
	checkoutrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/checkout"
	bookingsvc "github.com/InkaFilipinka/scooter-website-sub000/service/booking"
	pricingsvc "github.com/InkaFilipinka/scooter-website-sub000/service/pricing"
)

type ErrCode string

const (
	ErrNotFound    ErrCode = "NOT_FOUND"
	ErrNotPayable  ErrCode = "NOT_PAYABLE"
	ErrNotPaid     ErrCode = "NOT_PAID"
	ErrBadWebhook  ErrCode = "BAD_WEBHOOK"
	ErrWrongRail   ErrCode = "WRONG_RAIL"
	ErrProvider    ErrCode = "PROVIDER"
	ErrBookingMism ErrCode = "BOOKING_MISMATCH"
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

const eventPaymentConfirmed = "payment-confirmed"

type Notifier interface {
	Claim(ctx context.Context, bookingID, eventType string) (bool, error)
	Push(ctx context.Context, title, message string) error
}

type CheckoutCreated struct {
	SessionID   string `json:"sessionId"`
	CheckoutURL string `json:"checkoutUrl"`
	Amount      int64  `json:"amount"`
}

type Service interface {
	// CreateCheckout opens a hosted session for the booking's due amount
	// (total for "full", one-day deposit for "deposit").
	CreateCheckout(ctx context.Context, bookingID string) (*CheckoutCreated, error)
	// HandleWebhook is the source of truth for card confirmations.
	HandleWebhook(ctx context.Context, sigHeader string, raw []byte) error
	// ConfirmRedirect backs the success landing page. The paid amount is
	// re-read from the provider, never taken from the client.
	ConfirmRedirect(ctx context.Context, bookingID, sessionID string) (*model.Booking, error)
	// CancelRedirect backs the cancel landing page: no charge happened, so
	// no amount is recorded. It only acts on pending bookings; a booking a
	// rail already confirmed stays confirmed.
	CancelRedirect(ctx context.Context, bookingID string) (*model.Booking, error)
}

type service struct {
	bookings   bookingsvc.Service
	checkout   checkoutrepo.Repo
	notifier   Notifier
	successURL string
	cancelURL  string
	log        *slog.Logger
}

func New(bookings bookingsvc.Service, checkout checkoutrepo.Repo, notifier Notifier, successURL, cancelURL string, log *slog.Logger) Service {
	return &service{
		bookings:   bookings,
		checkout:   checkout,
		notifier:   notifier,
		successURL: successURL,
		cancelURL:  cancelURL,
		log:        log,
	}
}

// DueAmount is the figure a payment rail should collect for a booking:
// the agreed total for "full", one day's tier rent for "deposit".
func DueAmount(b *model.Booking) (int64, error) {
	switch b.PaymentOption {
	case model.PayFull:
		return b.Total, nil
	case model.PayDeposit:
		return pricingsvc.Deposit(b.ScooterID, b.RentalDays())
	default:
		return 0, makeErr(ErrNotPayable, "pay-on-pickup bookings are collected at pickup")
	}
}

func (s *service) CreateCheckout(ctx context.Context, bookingID string) (*CheckoutCreated, error) {
	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, makeErr(ErrNotFound, "booking not found")
	}
	if b.Status != model.BookingPending {
		return nil, makeErr(ErrNotPayable, "booking is "+string(b.Status))
	}
	if b.PaymentMethod != model.MethodCard {
		return nil, makeErr(ErrWrongRail, "booking did not choose card payment")
	}
	amount, err := DueAmount(b)
	if err != nil {
		return nil, err
	}

	sess, err := s.checkout.CreateSession(ctx, checkoutrepo.CreateSessionReq{
		BookingID:   b.ID,
		Amount:      amount,
		Description: fmt.Sprintf("Scooter rental %s (%d day(s))", b.ScooterID, b.RentalDays()),
		PayerEmail:  b.Email,
		SuccessURL:  s.successURL + "?booking=" + b.ID,
		CancelURL:   s.cancelURL + "?booking=" + b.ID,
	})
	if err != nil {
		return nil, makeErr(ErrProvider, err.Error())
	}
	return &CheckoutCreated{SessionID: sess.SessionID, CheckoutURL: sess.CheckoutURL, Amount: amount}, nil
}

type webhookEvent struct {
	Data struct {
		Attributes struct {
			Type string `json:"type"`
			Data struct {
				ID string `json:"id"` // checkout session id
			} `json:"data"`
		} `json:"attributes"`
	} `json:"data"`
}

func (s *service) HandleWebhook(ctx context.Context, sigHeader string, raw []byte) error {
	if err := s.checkout.VerifyWebhookSignature(sigHeader, raw); err != nil {
		return makeErr(ErrBadWebhook, err.Error())
	}

	var ev webhookEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return makeErr(ErrBadWebhook, "bad webhook json")
	}
	if ev.Data.Attributes.Type != "checkout_session.payment.paid" {
		return nil // not a payment event; acknowledge and move on
	}
	sessionID := ev.Data.Attributes.Data.ID
	if sessionID == "" {
		return makeErr(ErrBadWebhook, "missing session id")
	}

	// The event only names the session; the paid amount and the booking
	// mapping come from the provider, never from the webhook body.
	sess, err := s.checkout.GetSession(ctx, sessionID)
	if err != nil {
		return makeErr(ErrProvider, err.Error())
	}
	if sess.Status != "paid" || sess.AmountPaid <= 0 {
		return makeErr(ErrNotPaid, "session not paid")
	}
	_, err = s.confirmOnce(ctx, sess.BookingID, sess)
	return err
}

func (s *service) ConfirmRedirect(ctx context.Context, bookingID, sessionID string) (*model.Booking, error) {
	sess, err := s.checkout.GetSession(ctx, sessionID)
	if err != nil {
		return nil, makeErr(ErrProvider, err.Error())
	}
	if sess.BookingID != bookingID {
		return nil, makeErr(ErrBookingMism, "session does not belong to this booking")
	}
	if sess.Status != "paid" || sess.AmountPaid <= 0 {
		return nil, makeErr(ErrNotPaid, "session not paid")
	}
	return s.confirmOnce(ctx, bookingID, sess)
}

// confirmOnce moves a pending booking to confirmed with the provider-verified
// amount. Already-confirmed bookings pass through untouched, so the webhook
// and the redirect landing can both fire without double effects.
func (s *service) confirmOnce(ctx context.Context, bookingID string, sess *checkoutrepo.Session) (*model.Booking, error) {
	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, makeErr(ErrNotFound, "booking not found for paid session")
	}
	if b.Status == model.BookingConfirmed || b.Status == model.BookingCompleted {
		return b, nil
	}

	confirmed := model.BookingConfirmed
	lbl := "Credit Card"
	paidAt := time.Now().UTC()
	updated, err := s.bookings.Patch(ctx, bookingID, bookingsvc.PatchReq{
		Status:           &confirmed,
		AmountPaid:       &sess.AmountPaid,
		PaymentMethodLbl: &lbl,
		PaymentReference: &sess.SessionID,
		PaidAt:           &paidAt,
	})
	if err != nil {
		return nil, err
	}

	s.notifyConfirmed(ctx, updated)
	return updated, nil
}

func (s *service) CancelRedirect(ctx context.Context, bookingID string) (*model.Booking, error) {
	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, makeErr(ErrNotFound, "booking not found")
	}
	if b.Status == model.BookingCancelled {
		return b, nil
	}
	// Only a pending booking can be abandoned here. The endpoint is public,
	// so a paid booking must never be unwound by a stray redirect; staff
	// cancel confirmed bookings through the admin patch.
	if b.Status != model.BookingPending {
		return nil, makeErr(ErrNotPayable, "booking is "+string(b.Status)+", only a pending booking can be abandoned")
	}

	cancelled := model.BookingCancelled
	return s.bookings.Patch(ctx, bookingID, bookingsvc.PatchReq{Status: &cancelled})
}

// notifyConfirmed fires the staff push at most once per booking. Failures
// are logged and swallowed: a missed notification never unwinds a payment.
func (s *service) notifyConfirmed(ctx context.Context, b *model.Booking) {
	claimed, err := s.notifier.Claim(ctx, b.ID, eventPaymentConfirmed)
	if err != nil {
		s.log.Error("notification claim failed", "booking_id", b.ID, "err", err)
		return
	}
	if !claimed {
		return
	}
	msg := fmt.Sprintf("%s paid ₱%d for booking %s (%s)", b.Name, b.AmountPaid, b.ID, b.PaymentMethodLbl)
	if err := s.notifier.Push(ctx, "Payment confirmed", msg); err != nil {
		s.log.Error("notification push failed", "booking_id", b.ID, "err", err)
	}
}
