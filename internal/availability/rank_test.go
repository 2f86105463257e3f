package availability

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pricing"
	"github.com/nekogravitycat/cabin-booking-backend/internal/reservation"
	"github.com/nekogravitycat/cabin-booking-backend/internal/unit"
)

func aug(from, to int) daterange.DateRange {
	return daterange.DateRange{
		Start: daterange.Day(2026, time.August, from),
		End:   daterange.Day(2026, time.August, to),
	}
}

func cabin(id, name string, capacity int, price int64) *unit.Unit {
	return &unit.Unit{ID: id, Name: name, MaxOccupancy: capacity, BasePrice: decimal.NewFromInt(price), Active: true}
}

func names(offers []Offer) []string {
	out := make([]string, len(offers))
	for i, o := range offers {
		out[i] = o.Unit.Name
	}
	return out
}

func TestRank_ClosestFitFirst(t *testing.T) {
	inventory := []Inventory{
		{Unit: cabin("b", "B", 6, 100)},
		{Unit: cabin("c", "C", 4, 100)},
		{Unit: cabin("a", "A", 4, 100)},
	}

	first := Rank(aug(16, 18), 2, inventory, reservation.LinearDetector{})
	assert.Equal(t, []string{"A", "C", "B"}, names(first))

	// Same input in another order gives the same answer.
	shuffled := []Inventory{inventory[2], inventory[0], inventory[1]}
	assert.Equal(t, names(first), names(Rank(aug(16, 18), 2, shuffled, reservation.LinearDetector{})))
}

func TestRank_ExactMatchFirst(t *testing.T) {
	inventory := []Inventory{
		{Unit: cabin("big", "Lodge", 8, 300)},
		{Unit: cabin("exact", "Fir", 4, 120)},
		{Unit: cabin("small", "Nook", 2, 80)},
	}

	offers := Rank(aug(16, 18), 4, inventory, reservation.LinearDetector{})
	assert.Equal(t, []string{"Fir", "Lodge"}, names(offers))
}

func TestRank_SameNameOrderedByID(t *testing.T) {
	inventory := []Inventory{
		{Unit: cabin("z", "Twin", 4, 100)},
		{Unit: cabin("m", "Twin", 4, 100)},
	}

	offers := Rank(aug(16, 18), 2, inventory, reservation.LinearDetector{})
	require.Len(t, offers, 2)
	assert.Equal(t, "m", offers[0].Unit.ID)
	assert.Equal(t, "z", offers[1].Unit.ID)
}

func TestRank_Exclusions(t *testing.T) {
	inactive := cabin("off", "Closed", 4, 100)
	inactive.Active = false

	inventory := []Inventory{
		{Unit: cabin("busy", "Busy", 4, 100), Occupied: []daterange.DateRange{aug(17, 19)}},
		{Unit: cabin("free", "Free", 4, 100), Occupied: []daterange.DateRange{aug(18, 20), aug(14, 16)}},
		{Unit: inactive},
		{Unit: cabin("tiny", "Tiny", 1, 50)},
	}

	offers := Rank(aug(16, 18), 2, inventory, reservation.LinearDetector{})
	assert.Equal(t, []string{"Free"}, names(offers))
}

func TestRank_PricesWithOverrides(t *testing.T) {
	inventory := []Inventory{{
		Unit: cabin("p", "Pine", 4, 100),
		Overrides: []*pricing.PriceOverride{{
			ID:       "o1",
			Start:    daterange.Day(2026, time.August, 16),
			End:      daterange.Day(2026, time.August, 18),
			Price:    decimal.NewFromInt(150),
			Priority: 1,
			Active:   true,
		}},
	}}

	offers := Rank(aug(16, 17), 2, inventory, reservation.LinearDetector{})
	require.Len(t, offers, 1)
	assert.True(t, decimal.NewFromInt(150).Equal(offers[0].Total))
	assert.Equal(t, 1, offers[0].Nights)

	offers = Rank(aug(15, 18), 2, inventory, reservation.LinearDetector{})
	require.Len(t, offers, 1)
	assert.True(t, decimal.NewFromInt(400).Equal(offers[0].Total))
	assert.Equal(t, 3, offers[0].Nights)
}

func TestRank_NoAvailabilityIsEmpty(t *testing.T) {
	offers := Rank(aug(16, 18), 10, []Inventory{{Unit: cabin("a", "A", 4, 100)}}, reservation.LinearDetector{})
	assert.NotNil(t, offers)
	assert.Empty(t, offers)
}
