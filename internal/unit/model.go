package unit

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/cabin-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "cabin not found")
	ErrEmptyName       = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidCapacity = apperror.New(http.StatusBadRequest, "max occupancy must be a positive integer")
	ErrInvalidPrice    = apperror.New(http.StatusBadRequest, "base price cannot be negative")
	ErrInUse           = apperror.New(http.StatusConflict, "cabin still has reservations, deactivate it instead")
)

// Unit is a rentable cabin.
type Unit struct {
	ID           string
	Name         string
	MaxOccupancy int
	BasePrice    decimal.Decimal // per night
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Fits reports whether a party of the given size can stay in the unit.
func (u *Unit) Fits(guests int) bool {
	return guests >= 1 && guests <= u.MaxOccupancy
}

// Filter defines parameters for listing units.
type Filter struct {
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
