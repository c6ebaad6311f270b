package checkoutrepo

import "context"

type CreateSessionReq struct {
	BookingID   string
	Amount      int64 // PHP, integer units
	Description string
	PayerEmail  string
	SuccessURL  string
	CancelURL   string
}

type Session struct {
	SessionID   string
	CheckoutURL string
	Status      string // "active" | "paid" | "expired"
	AmountPaid  int64
	BookingID   string
}

// Repo wraps the hosted card checkout provider. GetSession exists so that
// confirmation never trusts a client-reported amount: the paid figure is
// always re-read from the provider.
type Repo interface {
	CreateSession(ctx context.Context, req CreateSessionReq) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	VerifyWebhookSignature(sigHeader string, rawBody []byte) error
}
