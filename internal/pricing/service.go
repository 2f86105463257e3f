package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
	"github.com/nekogravitycat/cabin-booking-backend/internal/unit"
)

type CreateRequest struct {
	UnitID   string
	Start    time.Time
	End      time.Time
	Price    decimal.Decimal
	Priority int
	Active   bool
	Category Category
}

type UpdateRequest struct {
	Start    *time.Time
	End      *time.Time
	Price    *decimal.Decimal
	Priority *int
	Active   *bool
	Category *Category
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*PriceOverride, error)
	GetByID(ctx context.Context, unitID, id string) (*PriceOverride, error)
	List(ctx context.Context, unitID string) ([]*PriceOverride, error)
	// ListActive returns the overrides the resolver should consider for a unit.
	ListActive(ctx context.Context, unitID string) ([]*PriceOverride, error)
	Update(ctx context.Context, unitID, id string, req UpdateRequest) (*PriceOverride, error)
	Delete(ctx context.Context, unitID, id string) error
}

// UnitGetter is the slice of the unit service pricing needs.
type UnitGetter interface {
	GetByID(ctx context.Context, id string) (*unit.Unit, error)
}

type service struct {
	repo   Repository
	units  UnitGetter
	logger *zap.Logger
}

func NewService(repo Repository, units UnitGetter, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		units:  units,
		logger: logger,
	}
}

func validate(o *PriceOverride) error {
	if o.End.Before(o.Start) {
		return ErrInvalidRange
	}
	if o.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if o.Priority < 1 {
		return ErrInvalidPriority
	}
	if !o.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// checkSiblings rejects an override that duplicates another one's dates and
// priority, and warns about partial same-priority overlaps, which the resolver
// settles by creation order.
func (s *service) checkSiblings(ctx context.Context, o *PriceOverride) error {
	siblings, err := s.repo.List(ctx, Filter{UnitID: o.UnitID})
	if err != nil {
		return err
	}
	for _, other := range siblings {
		if other.ID == o.ID {
			continue
		}
		if o.SameSlot(other) {
			return ErrDuplicateOverride
		}
		if o.Priority == other.Priority && o.Intersects(other) {
			s.logger.Warn("price overrides overlap at the same priority",
				zap.String("unit_id", o.UnitID),
				zap.String("override_id", o.ID),
				zap.String("other_override_id", other.ID),
				zap.Int("priority", o.Priority),
			)
		}
	}
	return nil
}

func (s *service) ensureUnit(ctx context.Context, unitID string) error {
	if _, err := s.units.GetByID(ctx, unitID); err != nil {
		if errors.Is(err, unit.ErrNotFound) {
			return ErrUnitNotFound
		}
		return err
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*PriceOverride, error) {
	if err := s.ensureUnit(ctx, req.UnitID); err != nil {
		return nil, err
	}

	o := &PriceOverride{
		UnitID:   req.UnitID,
		Start:    daterange.Truncate(req.Start),
		End:      daterange.Truncate(req.End),
		Price:    req.Price,
		Priority: req.Priority,
		Active:   req.Active,
		Category: req.Category,
	}
	if o.Category == "" {
		o.Category = CategoryCustom
	}
	if err := validate(o); err != nil {
		return nil, err
	}
	if err := s.checkSiblings(ctx, o); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// get loads an override and hides it when it belongs to another unit.
func (s *service) get(ctx context.Context, unitID, id string) (*PriceOverride, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UnitID != unitID {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *service) GetByID(ctx context.Context, unitID, id string) (*PriceOverride, error) {
	return s.get(ctx, unitID, id)
}

func (s *service) List(ctx context.Context, unitID string) ([]*PriceOverride, error) {
	if err := s.ensureUnit(ctx, unitID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Filter{UnitID: unitID})
}

func (s *service) ListActive(ctx context.Context, unitID string) ([]*PriceOverride, error) {
	return s.repo.List(ctx, Filter{UnitID: unitID, ActiveOnly: true})
}

func (s *service) Update(ctx context.Context, unitID, id string, req UpdateRequest) (*PriceOverride, error) {
	o, err := s.get(ctx, unitID, id)
	if err != nil {
		return nil, err
	}

	if req.Start != nil {
		o.Start = daterange.Truncate(*req.Start)
	}
	if req.End != nil {
		o.End = daterange.Truncate(*req.End)
	}
	if req.Price != nil {
		o.Price = *req.Price
	}
	if req.Priority != nil {
		o.Priority = *req.Priority
	}
	if req.Active != nil {
		o.Active = *req.Active
	}
	if req.Category != nil {
		o.Category = *req.Category
	}

	if err := validate(o); err != nil {
		return nil, err
	}
	if err := s.checkSiblings(ctx, o); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) Delete(ctx context.Context, unitID, id string) error {
	if _, err := s.get(ctx, unitID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
