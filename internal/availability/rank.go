package availability

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pricing"
	"github.com/nekogravitycat/cabin-booking-backend/internal/reservation"
	"github.com/nekogravitycat/cabin-booking-backend/internal/unit"
)

// Inventory is what ranking needs to know about one unit for one search.
type Inventory struct {
	Unit      *unit.Unit
	Occupied  []daterange.DateRange
	Overrides []*pricing.PriceOverride
}

// Offer is an available unit and the price of the whole stay.
type Offer struct {
	Unit   *unit.Unit
	Total  decimal.Decimal
	Nights int
	// Ties are nights priced by creation order between same-priority overrides.
	Ties []time.Time
}

// Rank filters inventory down to the active units that fit the party and are
// free for stay, prices them, and orders them smallest sufficient capacity
// first. Equal capacities are ordered by name, then id, so repeated calls
// agree. An empty result means no availability.
func Rank(stay daterange.DateRange, guests int, inventory []Inventory, detector reservation.Detector) []Offer {
	offers := make([]Offer, 0, len(inventory))
	for _, inv := range inventory {
		u := inv.Unit
		if u == nil || !u.Active || !u.Fits(guests) {
			continue
		}
		if detector.HasConflict(stay, inv.Occupied) {
			continue
		}
		quote := pricing.NewQuote(u.BasePrice, inv.Overrides, stay)
		offers = append(offers, Offer{
			Unit:   u,
			Total:  quote.Total,
			Nights: stay.Nights(),
			Ties:   quote.Ties,
		})
	}

	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i].Unit, offers[j].Unit
		if a.MaxOccupancy != b.MaxOccupancy {
			return a.MaxOccupancy < b.MaxOccupancy
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return offers
}
