package availability

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pricing"
	"github.com/nekogravitycat/cabin-booking-backend/internal/reservation"
	"github.com/nekogravitycat/cabin-booking-backend/internal/unit"
)

var ErrInvalidGuests = apperror.New(http.StatusBadRequest, "guest count must be at least 1")

type Service interface {
	// FindAvailable returns the units free for stay that can host guests, ranked
	// closest fit first. It only reads.
	FindAvailable(ctx context.Context, stay daterange.DateRange, guests int) ([]Offer, error)
}

type UnitLister interface {
	ListActive(ctx context.Context) ([]*unit.Unit, error)
}

type ReservationLister interface {
	ListOccupying(ctx context.Context, unitID string, window daterange.DateRange) ([]*reservation.Reservation, error)
}

type OverrideLister interface {
	ListActive(ctx context.Context, unitID string) ([]*pricing.PriceOverride, error)
}

type service struct {
	units        UnitLister
	reservations ReservationLister
	overrides    OverrideLister
	detector     reservation.Detector
	logger       *zap.Logger
}

func NewService(units UnitLister, reservations ReservationLister, overrides OverrideLister, logger *zap.Logger) Service {
	return &service{
		units:        units,
		reservations: reservations,
		overrides:    overrides,
		detector:     reservation.LinearDetector{},
		logger:       logger,
	}
}

func (s *service) FindAvailable(ctx context.Context, stay daterange.DateRange, guests int) ([]Offer, error) {
	if !stay.Valid() {
		return nil, daterange.ErrInvalidRange
	}
	if guests < 1 {
		return nil, ErrInvalidGuests
	}

	units, err := s.units.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	// One query covers the occupied dates of every unit.
	occupying, err := s.reservations.ListOccupying(ctx, "", stay)
	if err != nil {
		return nil, err
	}
	byUnit := make(map[string][]*reservation.Reservation)
	for _, r := range occupying {
		byUnit[r.UnitID] = append(byUnit[r.UnitID], r)
	}

	inventory := make([]Inventory, 0, len(units))
	for _, u := range units {
		if !u.Fits(guests) {
			continue
		}
		occupied := reservation.OccupiedRanges(byUnit[u.ID])
		if s.detector.HasConflict(stay, occupied) {
			continue
		}
		overrides, err := s.overrides.ListActive(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		inventory = append(inventory, Inventory{Unit: u, Occupied: occupied, Overrides: overrides})
	}

	offers := Rank(stay, guests, inventory, s.detector)
	for _, o := range offers {
		if len(o.Ties) > 0 {
			s.logger.Warn("same priority price overrides resolved by creation order",
				zap.String("unit_id", o.Unit.ID),
				zap.Stringer("stay", stay),
				zap.Int("tied_nights", len(o.Ties)),
			)
		}
	}
	return offers, nil
}
