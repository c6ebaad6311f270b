// model/booking.go
package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// CanTransition reports whether a status change is legal. The happy path is
// pending → confirmed → completed; cancelled is terminal and reachable from
// pending or confirmed only. Re-applying the current status is allowed so
// duplicate patches stay no-ops.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	if s == to {
		return true
	}
	switch s {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingCompleted || to == BookingCancelled
	default:
		return false
	}
}

type PaymentOption string

const (
	PayFull    PaymentOption = "full"
	PayDeposit PaymentOption = "deposit"
	PayPickup  PaymentOption = "pickup"
)

type PaymentMethod string

const (
	MethodCard   PaymentMethod = "credit-card"
	MethodCrypto PaymentMethod = "crypto"
	// GCash is kept in the enum because stored bookings reference it, but
	// new bookings may not select it.
	MethodGCash PaymentMethod = "gcash"
)

type InsuranceTier string

const (
	InsuranceFull    InsuranceTier = "full"
	InsuranceLimited InsuranceTier = "limited"
	InsuranceNone    InsuranceTier = "none"
)

// Booking is the central transactional entity. Total is fixed at creation
// time (the amount the customer agreed to pay) and never recomputed; the
// amount_paid / payment_method / payment_reference trio tracks payment
// progress as the rails confirm.
type Booking struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	ScooterID string    `json:"scooterId"`
	Quantity  int       `json:"quantity"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	Delivery           bool     `json:"delivery"`
	DeliveryDistanceKm float64  `json:"deliveryDistanceKm,omitempty"`
	DeliveryPlace      string   `json:"deliveryPlace,omitempty"`
	DeliveryLat        *float64 `json:"deliveryLat,omitempty"`
	DeliveryLng        *float64 `json:"deliveryLng,omitempty"`

	Insurance InsuranceTier `json:"insurance"`
	AddOns    []string      `json:"addOns,omitempty"`
	SurfRack  bool          `json:"surfRack"`

	PaymentOption PaymentOption `json:"paymentOption"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`

	Total int64 `json:"total"`

	AmountPaid       int64      `json:"amount_paid"`
	PaymentMethodLbl string     `json:"payment_method,omitempty"`
	PaymentReference string     `json:"payment_reference,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`

	Status    BookingStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}

// RentalDays is the ceil'd day count of the booked range.
func (b *Booking) RentalDays() int {
	d := b.EndDate.Sub(b.StartDate)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}
