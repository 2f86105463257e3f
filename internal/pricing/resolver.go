package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
)

// NightPrice is the price charged for one night and the override that set it.
// OverrideID is empty when the base price applied.
type NightPrice struct {
	Night      time.Time
	Price      decimal.Decimal
	OverrideID string
}

// Quote is a priced stay.
type Quote struct {
	Total  decimal.Decimal
	Nights []NightPrice
	// Ties lists the nights where two or more overrides shared the winning
	// priority and creation order decided.
	Ties []time.Time
}

// Resolve returns the total price of stay: for each night the highest priority
// active override covering it, otherwise base. A zero night stay costs zero.
func Resolve(base decimal.Decimal, overrides []*PriceOverride, stay daterange.DateRange) decimal.Decimal {
	return NewQuote(base, overrides, stay).Total
}

// NewQuote prices stay night by night.
func NewQuote(base decimal.Decimal, overrides []*PriceOverride, stay daterange.DateRange) Quote {
	q := Quote{Total: decimal.Zero}
	stay.EachNight(func(night time.Time) {
		winner, tie := pick(overrides, night)
		np := NightPrice{Night: night, Price: base}
		if winner != nil {
			np.Price = winner.Price
			np.OverrideID = winner.ID
		}
		if tie {
			q.Ties = append(q.Ties, night)
		}
		q.Nights = append(q.Nights, np)
		q.Total = q.Total.Add(np.Price)
	})
	return q
}

// pick selects the override for one night. Among equal priorities the earliest
// created wins, then the lowest id, so the result never depends on input order.
func pick(overrides []*PriceOverride, night time.Time) (winner *PriceOverride, tie bool) {
	for _, o := range overrides {
		if !o.Active || !o.Covers(night) {
			continue
		}
		switch {
		case winner == nil:
			winner = o
		case o.Priority > winner.Priority:
			winner, tie = o, false
		case o.Priority == winner.Priority:
			tie = true
			if createdFirst(o, winner) {
				winner = o
			}
		}
	}
	return winner, tie
}

func createdFirst(a, b *PriceOverride) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
