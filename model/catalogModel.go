// model/catalog.go
package model

// MaxFleet is the physical pool size: the shop owns four scooters.
const MaxFleet = 4

// MaxRentalDays caps a single booking; longer stays are negotiated off-line.
const MaxRentalDays = 90

// RateTier maps a minimum rental length to a per-day rate in PHP. Tiers are
// listed longest-first; the first tier the rental length qualifies for wins.
type RateTier struct {
	MinDays int
	PerDay  int64
}

type Scooter struct {
	ID    string
	Name  string
	Tiers []RateTier
}

// DailyRate returns the tier rate for a rental of the given length.
func (s Scooter) DailyRate(days int) int64 {
	for _, t := range s.Tiers {
		if days >= t.MinDays {
			return t.PerDay
		}
	}
	return 0
}

// AddOn is a bookable extra. PerDay extras multiply by rental length; Free
// extras are listed for the customer but never charged.
type AddOn struct {
	ID     string
	Name   string
	Price  int64
	PerDay bool
	Free   bool
}

// Insurance per-day fees by tier.
var InsurancePerDay = map[InsuranceTier]int64{
	InsuranceFull:    250,
	InsuranceLimited: 150,
	InsuranceNone:    0,
}

// Catalog is the fleet on offer. Rates follow the published volume-discount
// schedule: 1-2 days, 3+, 10+, 20+, 28+.
var Catalog = []Scooter{
	{
		ID:   "honda-click-125",
		Name: "Honda Click 125i",
		Tiers: []RateTier{
			{MinDays: 28, PerDay: 250},
			{MinDays: 20, PerDay: 300},
			{MinDays: 10, PerDay: 350},
			{MinDays: 3, PerDay: 400},
			{MinDays: 1, PerDay: 450},
		},
	},
	{
		ID:   "yamaha-nmax-155",
		Name: "Yamaha NMAX 155",
		Tiers: []RateTier{
			{MinDays: 28, PerDay: 400},
			{MinDays: 20, PerDay: 450},
			{MinDays: 10, PerDay: 500},
			{MinDays: 3, PerDay: 550},
			{MinDays: 1, PerDay: 600},
		},
	},
	{
		ID:   "honda-beat-110",
		Name: "Honda Beat 110",
		Tiers: []RateTier{
			{MinDays: 28, PerDay: 200},
			{MinDays: 20, PerDay: 250},
			{MinDays: 10, PerDay: 300},
			{MinDays: 3, PerDay: 330},
			{MinDays: 1, PerDay: 350},
		},
	},
}

var AddOns = []AddOn{
	{ID: "extra-helmet", Name: "Extra helmet", Free: true},
	{ID: "phone-holder", Name: "Phone holder", Free: true},
	{ID: "surf-rack", Name: "Surf rack", Price: 100, PerDay: true},
	{ID: "top-box", Name: "Top box", Price: 50, PerDay: true},
	{ID: "child-seat", Name: "Child seat", Price: 500},
}

func ScooterByID(id string) (Scooter, bool) {
	for _, s := range Catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Scooter{}, false
}

func AddOnByID(id string) (AddOn, bool) {
	for _, a := range AddOns {
		if a.ID == id {
			return a, true
		}
	}
	return AddOn{}, false
}

// ClampQuantity forces a requested unit count into [1, MaxFleet].
func ClampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	if q > MaxFleet {
		return MaxFleet
	}
	return q
}
