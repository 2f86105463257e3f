package chat

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
)

// State is where a conversation stands in the booking flow.
type State string

const (
	StateInitial           State = "initial"
	StateAwaitingDetails   State = "awaiting_dates_and_party"
	StateAvailabilityShown State = "availability_shown"
	StateHandedOff         State = "handed_off"
	StateAbandoned         State = "abandoned"
)

// Terminal reports whether the conversation has ended. The next message starts over.
func (s State) Terminal() bool {
	return s == StateHandedOff || s == StateAbandoned
}

// ShownOffer is a unit as it was listed to the guest, numbered from 1.
type ShownOffer struct {
	Index        int             `json:"index"`
	UnitID       string          `json:"unit_id"`
	Name         string          `json:"name"`
	MaxOccupancy int             `json:"max_occupancy"`
	Total        decimal.Decimal `json:"total"`
	Nights       int             `json:"nights"`
}

// Session is one guest's conversation. Sessions are values: Advance returns
// an updated copy and the caller persists it.
type Session struct {
	UserID    string       `json:"user_id"`
	State     State        `json:"state"`
	CheckIn   *time.Time   `json:"check_in,omitempty"`
	CheckOut  *time.Time   `json:"check_out,omitempty"`
	Guests    int          `json:"guests,omitempty"`
	Offers    []ShownOffer `json:"offers,omitempty"`
	Greeted   bool         `json:"greeted"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func NewSession(userID string) Session {
	return Session{UserID: userID, State: StateInitial}
}

// Stay returns the captured dates, if any.
func (s Session) Stay() (daterange.DateRange, bool) {
	if s.CheckIn == nil || s.CheckOut == nil {
		return daterange.DateRange{}, false
	}
	return daterange.DateRange{Start: *s.CheckIn, End: *s.CheckOut}, true
}

func (s *Session) setStay(r daterange.DateRange) {
	start, end := r.Start, r.End
	s.CheckIn, s.CheckOut = &start, &end
}

func (s *Session) clearStay() {
	s.CheckIn, s.CheckOut = nil, nil
}

// restart keeps only what identifies the guest.
func (s Session) restart() Session {
	next := NewSession(s.UserID)
	next.Greeted = s.Greeted
	return next
}

// SessionStore persists sessions by user id. Implementations expire idle sessions.
type SessionStore interface {
	// Get returns ok=false when the user has no live session.
	Get(ctx context.Context, userID string) (sess Session, ok bool, err error)
	Set(ctx context.Context, sess Session) error
	Delete(ctx context.Context, userID string) error
}
