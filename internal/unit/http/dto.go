package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/cabin-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/cabin-booking-backend/internal/unit"
)

// ListUnitsRequest defines query parameters for listing units.
type ListUnitsRequest struct {
	request.ListParams
	Active *bool  `form:"active"`
	SortBy string `form:"sort_by" binding:"omitempty,oneof=name max_occupancy base_price created_at"`
}

// UnitTag is the short form embedded in other resources.
type UnitTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UnitResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	MaxOccupancy int             `json:"max_occupancy"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func NewUnitResponse(u *unit.Unit) UnitResponse {
	return UnitResponse{
		ID:           u.ID,
		Name:         u.Name,
		MaxOccupancy: u.MaxOccupancy,
		BasePrice:    u.BasePrice,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type CreateUnitRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=100"`
	MaxOccupancy int             `json:"max_occupancy" binding:"required,min=1"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Active       *bool           `json:"active"`
}

type UpdateUnitRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=100"`
	MaxOccupancy *int             `json:"max_occupancy" binding:"omitempty,min=1"`
	BasePrice    *decimal.Decimal `json:"base_price"`
	Active       *bool            `json:"active"`
}
