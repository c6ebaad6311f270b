package booking

import "time"

type CreateBookingReq struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`

	ScooterID string `json:"scooterId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=10"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`

	Delivery           bool     `json:"delivery"`
	DeliveryDistanceKm float64  `json:"deliveryDistanceKm" validate:"gte=0"`
	DeliveryPlace      string   `json:"deliveryPlace"`
	DeliveryLat        *float64 `json:"deliveryLat"`
	DeliveryLng        *float64 `json:"deliveryLng"`

	Insurance string   `json:"insurance" validate:"required,oneof=full limited none"`
	AddOns    []string `json:"addOns"`
	SurfRack  bool     `json:"surfRack"`

	PaymentOption string `json:"paymentOption" validate:"required,oneof=full deposit pickup"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`

	// unix millis set by the booking form at submit time
	Timestamp int64 `json:"timestamp" validate:"required,gt=0"`
}

type PatchBookingReq struct {
	Status           *string    `json:"status" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	AmountPaid       *int64     `json:"amount_paid" validate:"omitempty,gte=0"`
	PaymentMethodLbl *string    `json:"payment_method"`
	PaymentReference *string    `json:"payment_reference"`
	PaidAt           *time.Time `json:"paidAt"`
}
