package pricing

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/cabin-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "price override not found")
	ErrUnitNotFound      = apperror.New(http.StatusNotFound, "cabin not found")
	ErrInvalidRange      = apperror.New(http.StatusBadRequest, "end date cannot be before start date")
	ErrInvalidPrice      = apperror.New(http.StatusBadRequest, "price cannot be negative")
	ErrInvalidPriority   = apperror.New(http.StatusBadRequest, "priority must be a positive integer")
	ErrInvalidCategory   = apperror.New(http.StatusBadRequest, "invalid category")
	ErrDuplicateOverride = apperror.New(http.StatusConflict, "an override with the same dates and priority already exists for this cabin")
)

type Category string

const (
	CategoryBase     Category = "base"
	CategorySeasonal Category = "seasonal"
	CategoryHoliday  Category = "holiday"
	CategoryWeekend  Category = "weekend"
	CategoryCustom   Category = "custom"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryBase, CategorySeasonal, CategoryHoliday, CategoryWeekend, CategoryCustom:
		return true
	}
	return false
}

// PriceOverride replaces a unit's base nightly price for every night in
// [Start, End]. Both bounds are inclusive, unlike reservation ranges.
type PriceOverride struct {
	ID        string
	UnitID    string
	Start     time.Time
	End       time.Time
	Price     decimal.Decimal
	Priority  int
	Active    bool
	Category  Category // informational only
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether night falls inside the override's inclusive range.
func (o *PriceOverride) Covers(night time.Time) bool {
	return !night.Before(o.Start) && !night.After(o.End)
}

// SameSlot reports whether two overrides claim identical dates at the same priority.
func (o *PriceOverride) SameSlot(other *PriceOverride) bool {
	return o.Priority == other.Priority && o.Start.Equal(other.Start) && o.End.Equal(other.End)
}

// Intersects reports whether the two inclusive ranges share a night.
func (o *PriceOverride) Intersects(other *PriceOverride) bool {
	return !o.Start.After(other.End) && !other.Start.After(o.End)
}

type Filter struct {
	UnitID     string
	ActiveOnly bool
}
