package reservation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pricing"
	"github.com/nekogravitycat/cabin-booking-backend/internal/unit"
)

type CreateRequest struct {
	UnitID       string
	Stay         daterange.DateRange
	Guests       int
	GuestName    string
	GuestContact string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Reservation, error)
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	ListOccupying(ctx context.Context, unitID string, window daterange.DateRange) ([]*Reservation, error)
	HasOccupying(ctx context.Context, unitID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error)
}

// UnitGetter is the slice of the unit service reservations need.
type UnitGetter interface {
	GetByID(ctx context.Context, id string) (*unit.Unit, error)
}

// OverrideLister supplies the active price overrides of a unit.
type OverrideLister interface {
	ListActive(ctx context.Context, unitID string) ([]*pricing.PriceOverride, error)
}

type service struct {
	repo      Repository
	units     UnitGetter
	overrides OverrideLister
	now       func() time.Time
	logger    *zap.Logger
}

// NewService builds the reservation service. now supplies the current time in
// the property's time zone and decides what "today" is for check-in validation.
func NewService(repo Repository, units UnitGetter, overrides OverrideLister, now func() time.Time, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		units:     units,
		overrides: overrides,
		now:       now,
		logger:    logger,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	if req.Guests < 1 {
		return nil, ErrInvalidGuests
	}
	if !req.Stay.Valid() {
		return nil, daterange.ErrInvalidRange
	}
	if req.Stay.Start.Before(daterange.Truncate(s.now())) {
		return nil, ErrCheckInPast
	}

	u, err := s.units.GetByID(ctx, req.UnitID)
	if err != nil {
		if errors.Is(err, unit.ErrNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	if !u.Active {
		return nil, ErrUnitInactive
	}
	if !u.Fits(req.Guests) {
		return nil, ErrTooManyGuests
	}

	overrides, err := s.overrides.ListActive(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	quote := pricing.NewQuote(u.BasePrice, overrides, req.Stay)
	if len(quote.Ties) > 0 {
		s.logger.Warn("same priority price overrides resolved by creation order",
			zap.String("unit_id", u.ID),
			zap.Stringer("stay", req.Stay),
			zap.Int("tied_nights", len(quote.Ties)),
		)
	}

	res := &Reservation{
		UnitID:       u.ID,
		UnitName:     u.Name,
		CheckIn:      req.Stay.Start,
		CheckOut:     req.Stay.End,
		Guests:       req.Guests,
		GuestName:    strings.TrimSpace(req.GuestName),
		GuestContact: strings.TrimSpace(req.GuestContact),
		TotalPrice:   quote.Total,
		Status:       StatusPending,
	}
	if err := s.repo.Create(ctx, res); err != nil {
		if errors.Is(err, ErrConflict) {
			s.logger.Info("reservation lost a race for its dates",
				zap.String("unit_id", u.ID),
				zap.Stringer("stay", req.Stay),
			)
		}
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ListOccupying(ctx context.Context, unitID string, window daterange.DateRange) ([]*Reservation, error) {
	return s.repo.ListOccupying(ctx, unitID, window)
}

func (s *service) HasOccupying(ctx context.Context, unitID string) (bool, error) {
	return s.repo.HasOccupying(ctx, unitID)
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.Status.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	from := res.Status
	res.Status = status
	if err := s.repo.UpdateStatus(ctx, res, from); err != nil {
		return nil, err
	}
	return res, nil
}
