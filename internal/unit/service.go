package unit

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name         string
	MaxOccupancy int
	BasePrice    decimal.Decimal
	Active       bool
}

type UpdateRequest struct {
	Name         *string
	MaxOccupancy *int
	BasePrice    *decimal.Decimal
	Active       *bool
}

// OccupancyChecker reports whether a unit still has pending or confirmed reservations.
type OccupancyChecker interface {
	HasOccupying(ctx context.Context, unitID string) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Unit, error)
	GetByID(ctx context.Context, id string) (*Unit, error)
	List(ctx context.Context, filter Filter) ([]*Unit, int, error)
	ListActive(ctx context.Context) ([]*Unit, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Unit, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo      Repository
	occupancy OccupancyChecker
}

func NewService(repo Repository, occupancy OccupancyChecker) Service {
	return &service{
		repo:      repo,
		occupancy: occupancy,
	}
}

// validate checks the logical rules for a Unit.
func validate(u *Unit) error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if u.MaxOccupancy < 1 {
		return ErrInvalidCapacity
	}
	if u.BasePrice.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Unit, error) {
	u := &Unit{
		Name:         strings.TrimSpace(req.Name),
		MaxOccupancy: req.MaxOccupancy,
		BasePrice:    req.BasePrice,
		Active:       req.Active,
	}
	if err := validate(u); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Unit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Unit, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ListActive(ctx context.Context) ([]*Unit, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Unit, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.MaxOccupancy != nil {
		u.MaxOccupancy = *req.MaxOccupancy
	}
	if req.BasePrice != nil {
		u.BasePrice = *req.BasePrice
	}
	if req.Active != nil {
		u.Active = *req.Active
	}
	if err := validate(u); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	occupied, err := s.occupancy.HasOccupying(ctx, id)
	if err != nil {
		return err
	}
	if occupied {
		return ErrInUse
	}
	return s.repo.Delete(ctx, id)
}
