// service/paymentlink/payment_link_service_test.go
package paymentlinksvc_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/InkaFilipinka/scooter-website-sub000/model"
	paymentlinkrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/paymentlink"
	paymentlinksvc "github.com/InkaFilipinka/scooter-website-sub000/service/paymentlink"
)

type repoMock struct {
	links map[string]*model.PaymentLink
}

func newRepoMock() *repoMock { return &repoMock{links: map[string]*model.PaymentLink{}} }

func (m *repoMock) Insert(ctx context.Context, l *model.PaymentLink) error {
	cp := *l
	m.links[l.ID] = &cp
	return nil
}

func (m *repoMock) GetByID(ctx context.Context, id string) (*model.PaymentLink, error) {
	l, ok := m.links[id]
	if !ok {
		return nil, paymentlinkrepo.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *repoMock) List(ctx context.Context) ([]model.PaymentLink, error) {
	var out []model.PaymentLink
	for _, l := range m.links {
		out = append(out, *l)
	}
	return out, nil
}

func (m *repoMock) ApplyPatch(ctx context.Context, id string, p paymentlinkrepo.Patch) (*model.PaymentLink, error) {
	l, ok := m.links[id]
	if !ok {
		return nil, paymentlinkrepo.ErrNotFound
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.PaidAt != nil {
		l.PaidAt = p.PaidAt
	}
	if p.PaymentMethod != nil {
		l.PaymentMethod = *p.PaymentMethod
	}
	if p.TransactionID != nil {
		l.TransactionID = *p.TransactionID
	}
	cp := *l
	return &cp, nil
}

func (m *repoMock) MarkExpired(ctx context.Context, id string) error {
	if l, ok := m.links[id]; ok && l.Status == model.LinkPending {
		l.Status = model.LinkExpired
	}
	return nil
}

func (m *repoMock) Delete(ctx context.Context, id string) error {
	if _, ok := m.links[id]; !ok {
		return paymentlinkrepo.ErrNotFound
	}
	delete(m.links, id)
	return nil
}

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newSvc(m *repoMock) paymentlinksvc.Service {
	return paymentlinksvc.NewWithClock(m, func() time.Time { return now })
}

func TestCreate(t *testing.T) {
	m := newRepoMock()
	s := newSvc(m)

	l, err := s.Create(context.Background(), paymentlinksvc.CreateReq{
		Amount:      1500,
		Description: "Deposit top-up",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(l.ID, "pl_"))
	require.Equal(t, model.LinkPending, l.Status)

	_, err = s.Create(context.Background(), paymentlinksvc.CreateReq{Amount: 0, Description: "x"})
	require.Equal(t, paymentlinksvc.ErrValidation, paymentlinksvc.Code(err))

	past := now.Add(-time.Hour)
	_, err = s.Create(context.Background(), paymentlinksvc.CreateReq{
		Amount: 100, Description: "x", ExpiresAt: &past,
	})
	require.Equal(t, paymentlinksvc.ErrValidation, paymentlinksvc.Code(err))
}

func TestLazyExpiryOnGet(t *testing.T) {
	m := newRepoMock()
	s := newSvc(m)

	exp := now.Add(time.Hour)
	l, err := s.Create(context.Background(), paymentlinksvc.CreateReq{
		Amount: 500, Description: "Custom charge", ExpiresAt: &exp,
	})
	require.NoError(t, err)

	// still valid
	got, err := s.Get(context.Background(), l.ID)
	require.NoError(t, err)
	require.Equal(t, model.LinkPending, got.Status)

	// past the deadline: the read flips AND persists the status
	now = now.Add(2 * time.Hour)
	got, err = s.Get(context.Background(), l.ID)
	require.NoError(t, err)
	require.Equal(t, model.LinkExpired, got.Status)
	require.Equal(t, model.LinkExpired, m.links[l.ID].Status)

	// consistent on a subsequent fetch
	got, err = s.Get(context.Background(), l.ID)
	require.NoError(t, err)
	require.Equal(t, model.LinkExpired, got.Status)
	now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestLazyExpiryOnList(t *testing.T) {
	m := newRepoMock()
	s := newSvc(m)

	exp := now.Add(time.Minute)
	l, err := s.Create(context.Background(), paymentlinksvc.CreateReq{
		Amount: 500, Description: "Custom charge", ExpiresAt: &exp,
	})
	require.NoError(t, err)

	now = now.Add(time.Hour)
	links, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, model.LinkExpired, links[0].Status)
	require.Equal(t, model.LinkExpired, m.links[l.ID].Status)
	now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestPatchTransitions(t *testing.T) {
	m := newRepoMock()
	s := newSvc(m)

	l, err := s.Create(context.Background(), paymentlinksvc.CreateReq{
		Amount: 2500, Description: "Damage fee",
	})
	require.NoError(t, err)

	paid := model.LinkPaid
	method := "gcash"
	txid := "tx-123"
	got, err := s.Patch(context.Background(), l.ID, paymentlinksvc.PatchReq{
		Status: &paid, PaymentMethod: &method, TransactionID: &txid,
	})
	require.NoError(t, err)
	require.Equal(t, model.LinkPaid, got.Status)
	require.NotNil(t, got.PaidAt)
	require.Equal(t, "tx-123", got.TransactionID)

	// a paid link cannot be cancelled
	cancelled := model.LinkCancelled
	_, err = s.Patch(context.Background(), l.ID, paymentlinksvc.PatchReq{Status: &cancelled})
	require.Equal(t, paymentlinksvc.ErrBadTransition, paymentlinksvc.Code(err))
}

func TestPatchExpiredLinkRejected(t *testing.T) {
	m := newRepoMock()
	s := newSvc(m)

	exp := now.Add(time.Minute)
	l, err := s.Create(context.Background(), paymentlinksvc.CreateReq{
		Amount: 500, Description: "Late fee", ExpiresAt: &exp,
	})
	require.NoError(t, err)

	now = now.Add(time.Hour)
	paid := model.LinkPaid
	_, err = s.Patch(context.Background(), l.ID, paymentlinksvc.PatchReq{Status: &paid})
	require.Equal(t, paymentlinksvc.ErrBadTransition, paymentlinksvc.Code(err))
	now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestDelete(t *testing.T) {
	m := newRepoMock()
	s := newSvc(m)

	l, err := s.Create(context.Background(), paymentlinksvc.CreateReq{
		Amount: 100, Description: "x",
	})
	require.NoError(t, err)
	require.NoError(t, s.Delete(context.Background(), l.ID))
	err = s.Delete(context.Background(), l.ID)
	require.Equal(t, paymentlinksvc.ErrNotFound, paymentlinksvc.Code(err))
}
