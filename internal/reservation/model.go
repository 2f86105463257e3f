package reservation

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "reservation not found")
	ErrConflict          = apperror.New(http.StatusConflict, "the cabin is no longer available for these dates, please search again")
	ErrCheckInPast       = apperror.New(http.StatusBadRequest, "check-in cannot be in the past")
	ErrInvalidGuests     = apperror.New(http.StatusBadRequest, "guest count must be at least 1")
	ErrTooManyGuests     = apperror.New(http.StatusBadRequest, "party exceeds the cabin's capacity")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid reservation status")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "reservation status cannot change that way")
	ErrUnitNotFound      = apperror.New(http.StatusNotFound, "cabin not found")
	ErrUnitInactive      = apperror.New(http.StatusConflict, "cabin is not accepting reservations")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// transitions lists the statuses reachable from each status. Cancelled and
// completed are final.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Occupying reports whether a reservation in this status blocks its dates.
func (s Status) Occupying() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Reservation is a stay in one unit. CheckOut is exclusive and the dates never
// change after creation; only Status moves.
type Reservation struct {
	ID           string
	UnitID       string
	UnitName     string
	CheckIn      time.Time
	CheckOut     time.Time
	Guests       int
	GuestName    string
	GuestContact string
	TotalPrice   decimal.Decimal
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r *Reservation) Range() daterange.DateRange {
	return daterange.DateRange{Start: r.CheckIn, End: r.CheckOut}
}

type Filter struct {
	UnitID    string
	Status    string
	From      *time.Time // reservations checking out after this date
	To        *time.Time // reservations checking in before this date
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
