// service/pricing/pricing_service_test.go
package pricingsvc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/InkaFilipinka/scooter-website-sub000/model"
	pricingsvc "github.com/InkaFilipinka/scooter-website-sub000/service/pricing"
)

var day0 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func input(days int) pricingsvc.Input {
	return pricingsvc.Input{
		ScooterID: "honda-click-125",
		StartDate: day0,
		EndDate:   day0.AddDate(0, 0, days),
		Insurance: model.InsuranceNone,
	}
}

func TestTierBoundaries(t *testing.T) {
	// rate per day at each boundary for the Click 125: 1-2:450, 3+:400,
	// 10+:350, 20+:300, 28+:250
	cases := []struct {
		days int
		rate int64
	}{
		{1, 450}, {2, 450},
		{3, 400}, {9, 400},
		{10, 350}, {19, 350},
		{20, 300}, {27, 300},
		{28, 250}, {90, 250},
	}
	for _, c := range cases {
		q, err := pricingsvc.Compute(input(c.days))
		require.NoError(t, err, "days=%d", c.days)
		require.Equal(t, c.rate, q.DailyRate, "days=%d", c.days)
		require.Equal(t, c.rate*int64(c.days), q.Total, "days=%d", c.days)
	}
}

func TestTierMonotonicity(t *testing.T) {
	prev := int64(1 << 40)
	for days := 1; days <= 90; days++ {
		q, err := pricingsvc.Compute(input(days))
		require.NoError(t, err)
		require.LessOrEqual(t, q.DailyRate, prev, "per-day rate rose at %d days", days)
		prev = q.DailyRate
	}
}

func TestDeliveryFeeFloor(t *testing.T) {
	require.Equal(t, int64(100), pricingsvc.DeliveryFee(0.5))
	require.Equal(t, int64(100), pricingsvc.DeliveryFee(4))
	require.Equal(t, int64(250), pricingsvc.DeliveryFee(10))
	require.Equal(t, int64(500), pricingsvc.DeliveryFee(20))

	in := input(2)
	in.Delivery = true
	in.DeliveryDistanceKm = 10
	q, err := pricingsvc.Compute(in)
	require.NoError(t, err)
	require.Equal(t, int64(250), q.DeliveryFee)
	require.Equal(t, int64(2*450+250), q.Total)
}

func TestInsuranceAndAddOns(t *testing.T) {
	in := input(5)
	in.Insurance = model.InsuranceFull
	in.AddOnIDs = []string{"extra-helmet", "surf-rack", "child-seat"}

	q, err := pricingsvc.Compute(in)
	require.NoError(t, err)
	require.Equal(t, int64(5*250), q.InsuranceCost)
	// free helmet contributes nothing, surf rack is per-day, child seat flat
	require.Equal(t, int64(5*100+500), q.AddOnsCost)
	require.Equal(t, q.RentalCost+q.InsuranceCost+q.AddOnsCost, q.Total)
}

func TestDeposit(t *testing.T) {
	// deposit is one day at the rental's own tier, not at the short-stay rate
	d, err := pricingsvc.Deposit("honda-click-125", 30)
	require.NoError(t, err)
	require.Equal(t, int64(250), d)

	d, err = pricingsvc.Deposit("honda-click-125", 2)
	require.NoError(t, err)
	require.Equal(t, int64(450), d)

	q, err := pricingsvc.Compute(input(30))
	require.NoError(t, err)
	require.Equal(t, int64(250), q.Deposit)
}

func TestValidation(t *testing.T) {
	in := input(0)
	_, err := pricingsvc.Compute(in)
	require.Equal(t, pricingsvc.ErrBadDates, pricingsvc.Code(err))

	in = input(2)
	in.EndDate = in.StartDate.AddDate(0, 0, -1)
	_, err = pricingsvc.Compute(in)
	require.Equal(t, pricingsvc.ErrBadDates, pricingsvc.Code(err))

	_, err = pricingsvc.Compute(input(91))
	require.Equal(t, pricingsvc.ErrTooLong, pricingsvc.Code(err))

	in = input(2)
	in.ScooterID = "vespa-900"
	_, err = pricingsvc.Compute(in)
	require.Equal(t, pricingsvc.ErrUnknownScooter, pricingsvc.Code(err))

	in = input(2)
	in.AddOnIDs = []string{"jetpack"}
	_, err = pricingsvc.Compute(in)
	require.Equal(t, pricingsvc.ErrUnknownAddOn, pricingsvc.Code(err))

	in = input(2)
	in.Insurance = "platinum"
	_, err = pricingsvc.Compute(in)
	require.Equal(t, pricingsvc.ErrUnknownInsurance, pricingsvc.Code(err))
}

func TestPartialDayRoundsUp(t *testing.T) {
	in := input(2)
	in.EndDate = in.EndDate.Add(6 * time.Hour) // 2 days 6h → 3 days
	q, err := pricingsvc.Compute(in)
	require.NoError(t, err)
	require.Equal(t, 3, q.Days)
	require.Equal(t, int64(400), q.DailyRate)
}
