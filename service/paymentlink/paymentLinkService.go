package paymentlinksvc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/InkaFilipinka/scooter-website-sub000/model"
	paymentlinkrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/paymentlink"
)

type ErrCode string

const (
	ErrValidation    ErrCode = "VALIDATION"
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrBadTransition ErrCode = "BAD_TRANSITION"
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

type CreateReq struct {
	Amount        int64
	Description   string
	CustomerName  string
	CustomerEmail string
	ExpiresAt     *time.Time
}

type PatchReq struct {
	Status        *model.PaymentLinkStatus
	PaymentMethod *string
	TransactionID *string
}

type Repo interface {
	Insert(ctx context.Context, l *model.PaymentLink) error
	GetByID(ctx context.Context, id string) (*model.PaymentLink, error)
	List(ctx context.Context) ([]model.PaymentLink, error)
	ApplyPatch(ctx context.Context, id string, p paymentlinkrepo.Patch) (*model.PaymentLink, error)
	MarkExpired(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type Service interface {
	Create(ctx context.Context, req CreateReq) (*model.PaymentLink, error)
	// Get applies lazy expiry: a pending link past its deadline is flipped
	// to expired in the store before being returned.
	Get(ctx context.Context, id string) (*model.PaymentLink, error)
	List(ctx context.Context) ([]model.PaymentLink, error)
	Patch(ctx context.Context, id string, req PatchReq) (*model.PaymentLink, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	r   Repo
	now func() time.Time
}

func New(r Repo) Service { return &service{r: r, now: time.Now} }

// NewWithClock is used by tests to control expiry.
func NewWithClock(r Repo, now func() time.Time) Service { return &service{r: r, now: now} }

func (s *service) Create(ctx context.Context, req CreateReq) (*model.PaymentLink, error) {
	if req.Amount <= 0 {
		return nil, makeErr(ErrValidation, "amount must be positive")
	}
	if req.Description == "" {
		return nil, makeErr(ErrValidation, "description is required")
	}
	now := s.now().UTC()
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return nil, makeErr(ErrValidation, "expiry must be in the future")
	}

	l := &model.PaymentLink{
		ID:            newLinkID(now),
		Amount:        req.Amount,
		Description:   req.Description,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CreatedAt:     now,
		ExpiresAt:     req.ExpiresAt,
		Status:        model.LinkPending,
	}
	if err := s.r.Insert(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) Get(ctx context.Context, id string) (*model.PaymentLink, error) {
	l, err := s.r.GetByID(ctx, id)
	if errors.Is(err, paymentlinkrepo.ErrNotFound) {
		return nil, makeErr(ErrNotFound, "payment link not found")
	}
	if err != nil {
		return nil, err
	}
	return s.expireIfDue(ctx, l)
}

func (s *service) List(ctx context.Context) ([]model.PaymentLink, error) {
	links, err := s.r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range links {
		l, err := s.expireIfDue(ctx, &links[i])
		if err != nil {
			return nil, err
		}
		links[i] = *l
	}
	return links, nil
}

// expireIfDue persists the expired status so a later read is consistent.
func (s *service) expireIfDue(ctx context.Context, l *model.PaymentLink) (*model.PaymentLink, error) {
	if !l.ExpiredNow(s.now()) {
		return l, nil
	}
	if err := s.r.MarkExpired(ctx, l.ID); err != nil {
		return nil, err
	}
	l.Status = model.LinkExpired
	return l, nil
}

func (s *service) Patch(ctx context.Context, id string, req PatchReq) (*model.PaymentLink, error) {
	l, err := s.Get(ctx, id) // lazy expiry first, so a late payment can't revive a dead link
	if err != nil {
		return nil, err
	}

	p := paymentlinkrepo.Patch{
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
	}
	if req.Status != nil {
		to := *req.Status
		switch to {
		case model.LinkPaid, model.LinkCancelled:
		default:
			return nil, makeErr(ErrValidation, "status must be paid or cancelled")
		}
		if l.Status != model.LinkPending && l.Status != to {
			return nil, makeErr(ErrBadTransition, string(l.Status)+" → "+string(to))
		}
		p.Status = req.Status
		if to == model.LinkPaid {
			paidAt := s.now().UTC()
			p.PaidAt = &paidAt
		}
	}

	updated, err := s.r.ApplyPatch(ctx, id, p)
	if errors.Is(err, paymentlinkrepo.ErrNotFound) {
		return nil, makeErr(ErrNotFound, "payment link not found")
	}
	return updated, err
}

func (s *service) Delete(ctx context.Context, id string) error {
	err := s.r.Delete(ctx, id)
	if errors.Is(err, paymentlinkrepo.ErrNotFound) {
		return makeErr(ErrNotFound, "payment link not found")
	}
	return err
}

// newLinkID builds the prefixed, time+random derived id, e.g.
// pl_lx2ahbq3_9f86d081.
func newLinkID(now time.Time) string {
	return fmt.Sprintf("pl_%s_%s",
		strconv.FormatInt(now.UnixMilli(), 36),
		uuid.NewString()[:8])
}
