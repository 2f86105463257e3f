package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pricing"
)

// OverrideURI addresses one override of one cabin.
type OverrideURI struct {
	UnitID     string `uri:"id" binding:"required,uuid"`
	OverrideID string `uri:"override_id" binding:"required,uuid"`
}

type PriceOverrideResponse struct {
	ID        string          `json:"id"`
	UnitID    string          `json:"unit_id"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Price     decimal.Decimal `json:"price"`
	Priority  int             `json:"priority"`
	Active    bool            `json:"active"`
	Category  string          `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewPriceOverrideResponse(o *pricing.PriceOverride) PriceOverrideResponse {
	return PriceOverrideResponse{
		ID:        o.ID,
		UnitID:    o.UnitID,
		StartDate: o.Start.Format(daterange.Layout),
		EndDate:   o.End.Format(daterange.Layout),
		Price:     o.Price,
		Priority:  o.Priority,
		Active:    o.Active,
		Category:  string(o.Category),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

type CreatePriceOverrideRequest struct {
	StartDate string          `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string          `json:"end_date" binding:"required,datetime=2006-01-02"`
	Price     decimal.Decimal `json:"price"`
	Priority  int             `json:"priority" binding:"required,min=1"`
	Active    *bool           `json:"active"`
	Category  string          `json:"category" binding:"omitempty,oneof=base seasonal holiday weekend custom"`
}

type UpdatePriceOverrideRequest struct {
	StartDate *string          `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string          `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Price     *decimal.Decimal `json:"price"`
	Priority  *int             `json:"priority" binding:"omitempty,min=1"`
	Active    *bool            `json:"active"`
	Category  *string          `json:"category" binding:"omitempty,oneof=base seasonal holiday weekend custom"`
}

// parseDate reads a date already checked by the datetime binding.
func parseDate(s string) time.Time {
	t, _ := time.Parse(daterange.Layout, s)
	return t
}
