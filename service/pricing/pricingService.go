// Package pricingsvc computes rental quotes. Everything here is pure: the
// same inputs always produce the same total, so the customer-facing preview
// and the server-side figure stored at booking creation cannot drift.
package pricingsvc

import (
	"errors"
	"math"
	"time"

	"github.com/InkaFilipinka/scooter-website-sub000/model"
)

type ErrCode string

const (
	ErrBadDates         ErrCode = "BAD_DATES"
	ErrTooLong          ErrCode = "TOO_LONG"
	ErrUnknownScooter   ErrCode = "UNKNOWN_SCOOTER"
	ErrUnknownAddOn     ErrCode = "UNKNOWN_ADDON"
	ErrUnknownInsurance ErrCode = "UNKNOWN_INSURANCE"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Input struct {
	ScooterID          string
	StartDate          time.Time
	EndDate            time.Time
	Insurance          model.InsuranceTier
	Delivery           bool
	DeliveryDistanceKm float64
	AddOnIDs           []string
}

// Quote is the full cost breakdown. Total is in integer PHP.
type Quote struct {
	ScooterID     string `json:"scooterId"`
	Days          int    `json:"days"`
	DailyRate     int64  `json:"dailyRate"`
	RentalCost    int64  `json:"rentalCost"`
	InsuranceCost int64  `json:"insuranceCost"`
	DeliveryFee   int64  `json:"deliveryFee"`
	AddOnsCost    int64  `json:"addOnsCost"`
	Total         int64  `json:"total"`
	Deposit       int64  `json:"deposit"`
}

// Days is the ceil'd length of the range; zero or negative ranges are the
// caller's validation problem and come back as BAD_DATES from Compute.
func Days(start, end time.Time) int {
	d := end.Sub(start)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// DeliveryFee charges a round trip per km with a floor, so short deliveries
// never undercut the cost of sending someone out.
func DeliveryFee(distanceKm float64) int64 {
	fee := int64(math.Round(distanceKm * 12.5 * 2))
	if fee < 100 {
		return 100
	}
	return fee
}

// Compute turns a rental request into a quote using the tiered schedule.
func Compute(in Input) (*Quote, error) {
	scooter, ok := model.ScooterByID(in.ScooterID)
	if !ok {
		return nil, makeErr(ErrUnknownScooter)
	}

	days := Days(in.StartDate, in.EndDate)
	if days <= 0 {
		return nil, makeErr(ErrBadDates)
	}
	if days > model.MaxRentalDays {
		return nil, makeErr(ErrTooLong)
	}

	insPerDay, ok := model.InsurancePerDay[in.Insurance]
	if !ok {
		return nil, makeErr(ErrUnknownInsurance)
	}

	rate := scooter.DailyRate(days)
	q := &Quote{
		ScooterID:     in.ScooterID,
		Days:          days,
		DailyRate:     rate,
		RentalCost:    rate * int64(days),
		InsuranceCost: insPerDay * int64(days),
		Deposit:       rate, // one day's rent at the rental's own tier
	}

	if in.Delivery {
		q.DeliveryFee = DeliveryFee(in.DeliveryDistanceKm)
	}

	for _, id := range in.AddOnIDs {
		a, ok := model.AddOnByID(id)
		if !ok {
			return nil, makeErr(ErrUnknownAddOn)
		}
		if a.Free {
			continue
		}
		if a.PerDay {
			q.AddOnsCost += a.Price * int64(days)
		} else {
			q.AddOnsCost += a.Price
		}
	}

	q.Total = q.RentalCost + q.InsuranceCost + q.DeliveryFee + q.AddOnsCost
	return q, nil
}

// Deposit is one day's rent at the tier rate the rental itself qualifies
// for. It is the minimum commitment for delivery or pay-later reservations.
func Deposit(scooterID string, days int) (int64, error) {
	scooter, ok := model.ScooterByID(scooterID)
	if !ok {
		return 0, makeErr(ErrUnknownScooter)
	}
	if days <= 0 {
		return 0, makeErr(ErrBadDates)
	}
	if days > model.MaxRentalDays {
		return 0, makeErr(ErrTooLong)
	}
	return scooter.DailyRate(days), nil
}
