// model/paymentlink.go
package model

import "time"

type PaymentLinkStatus string

const (
	LinkPending   PaymentLinkStatus = "pending"
	LinkPaid      PaymentLinkStatus = "paid"
	LinkExpired   PaymentLinkStatus = "expired"
	LinkCancelled PaymentLinkStatus = "cancelled"
)

// PaymentLink is an admin-issued ad-hoc payment request decoupled from a
// rental (deposit top-ups, custom charges). Expiry is lazy: a pending link
// past ExpiresAt flips to expired on the read path, never by a sweeper.
type PaymentLink struct {
	ID            string            `json:"id"`
	Amount        int64             `json:"amount"`
	Description   string            `json:"description"`
	CustomerName  string            `json:"customerName,omitempty"`
	CustomerEmail string            `json:"customerEmail,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	ExpiresAt     *time.Time        `json:"expiresAt,omitempty"`
	Status        PaymentLinkStatus `json:"status"`
	PaidAt        *time.Time        `json:"paidAt,omitempty"`
	PaymentMethod string            `json:"paymentMethod,omitempty"`
	TransactionID string            `json:"transactionId,omitempty"`
}

// ExpiredNow reports whether a pending link's deadline has passed.
func (p *PaymentLink) ExpiredNow(now time.Time) bool {
	return p.Status == LinkPending && p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}
