package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
)

func aug(day int) time.Time {
	return daterange.Day(2026, time.August, day)
}

func stay(from, to int) daterange.DateRange {
	return daterange.DateRange{Start: aug(from), End: aug(to)}
}

func override(id string, from, to int, price string, priority int) *PriceOverride {
	return &PriceOverride{
		ID:        id,
		Start:     aug(from),
		End:       aug(to),
		Price:     decimal.RequireFromString(price),
		Priority:  priority,
		Active:    true,
		Category:  CategorySeasonal,
		CreatedAt: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestResolve(t *testing.T) {
	base := decimal.NewFromInt(100)

	tests := []struct {
		name      string
		overrides []*PriceOverride
		stay      daterange.DateRange
		want      string
	}{
		{
			name: "No overrides uses the base price",
			stay: stay(16, 18),
			want: "200",
		},
		{
			name:      "Override covering the whole stay",
			overrides: []*PriceOverride{override("a", 1, 31, "150", 1)},
			stay:      stay(16, 18),
			want:      "300",
		},
		{
			name:      "Override covering one night only",
			overrides: []*PriceOverride{override("a", 17, 17, "180", 1)},
			stay:      stay(16, 19),
			want:      "380",
		},
		{
			name:      "End date of an override is inclusive",
			overrides: []*PriceOverride{override("a", 10, 16, "90", 1)},
			stay:      stay(16, 18),
			want:      "190",
		},
		{
			name: "Higher priority wins",
			overrides: []*PriceOverride{
				override("low", 1, 31, "150", 1),
				override("high", 16, 16, "250", 5),
			},
			stay: stay(16, 18),
			want: "400",
		},
		{
			name: "Inactive override is ignored",
			overrides: func() []*PriceOverride {
				o := override("a", 1, 31, "999", 9)
				o.Active = false
				return []*PriceOverride{o}
			}(),
			stay: stay(16, 18),
			want: "200",
		},
		{
			name:      "Decimal prices are summed exactly",
			overrides: []*PriceOverride{override("a", 1, 31, "99.99", 1)},
			stay:      stay(16, 19),
			want:      "299.97",
		},
		{
			name:      "Zero night stay costs nothing",
			overrides: []*PriceOverride{override("a", 1, 31, "150", 1)},
			stay:      stay(16, 16),
			want:      "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(base, tt.overrides, tt.stay)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestResolve_SamePriorityFirstCreatedWins(t *testing.T) {
	base := decimal.NewFromInt(100)

	older := override("b", 1, 31, "120", 3)
	newer := override("a", 1, 31, "200", 3)
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)

	// Input order must not matter.
	for _, overrides := range [][]*PriceOverride{{older, newer}, {newer, older}} {
		q := NewQuote(base, overrides, stay(16, 18))
		assert.True(t, decimal.NewFromInt(240).Equal(q.Total))
		assert.Equal(t, []time.Time{aug(16), aug(17)}, q.Ties)
		for _, n := range q.Nights {
			assert.Equal(t, "b", n.OverrideID)
		}
	}
}

func TestResolve_SamePrioritySameCreatedLowestIDWins(t *testing.T) {
	x := override("x", 1, 31, "300", 2)
	y := override("y", 1, 31, "100", 2)

	got := Resolve(decimal.NewFromInt(50), []*PriceOverride{y, x}, stay(16, 17))
	assert.True(t, decimal.NewFromInt(300).Equal(got))
}

func TestNewQuote_Breakdown(t *testing.T) {
	q := NewQuote(decimal.NewFromInt(100), []*PriceOverride{override("w", 17, 17, "130", 1)}, stay(16, 18))

	require.Len(t, q.Nights, 2)
	assert.Equal(t, aug(16), q.Nights[0].Night)
	assert.Empty(t, q.Nights[0].OverrideID)
	assert.True(t, decimal.NewFromInt(100).Equal(q.Nights[0].Price))
	assert.Equal(t, "w", q.Nights[1].OverrideID)
	assert.True(t, decimal.NewFromInt(130).Equal(q.Nights[1].Price))
	assert.Empty(t, q.Ties)
}
