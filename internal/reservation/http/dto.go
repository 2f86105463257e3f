package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/cabin-booking-backend/internal/reservation"
	unitHttp "github.com/nekogravitycat/cabin-booking-backend/internal/unit/http"
)

// ListReservationsRequest defines query parameters for listing reservations.
type ListReservationsRequest struct {
	request.ListParams
	UnitID string `form:"unit_id" binding:"omitempty,uuid"`
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	SortBy string `form:"sort_by" binding:"omitempty,oneof=check_in check_out created_at status"`
}

// Validate checks the date window once both bounds are known.
func (r *ListReservationsRequest) Validate() error {
	if r.From != "" && r.To != "" && r.To < r.From {
		return daterange.ErrInvalidRange
	}
	return nil
}

type ReservationResponse struct {
	ID           string           `json:"id"`
	Unit         unitHttp.UnitTag `json:"unit"`
	CheckIn      string           `json:"check_in"`
	CheckOut     string           `json:"check_out"`
	Nights       int              `json:"nights"`
	Guests       int              `json:"guests"`
	GuestName    string           `json:"guest_name"`
	GuestContact string           `json:"guest_contact"`
	TotalPrice   decimal.Decimal  `json:"total_price"`
	Status       string           `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:           r.ID,
		Unit:         unitHttp.UnitTag{ID: r.UnitID, Name: r.UnitName},
		CheckIn:      r.CheckIn.Format(daterange.Layout),
		CheckOut:     r.CheckOut.Format(daterange.Layout),
		Nights:       r.Range().Nights(),
		Guests:       r.Guests,
		GuestName:    r.GuestName,
		GuestContact: r.GuestContact,
		TotalPrice:   r.TotalPrice,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type CreateReservationRequest struct {
	UnitID       string `json:"unit_id" binding:"required,uuid"`
	CheckIn      string `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut     string `json:"check_out" binding:"required,datetime=2006-01-02"`
	Guests       int    `json:"guests" binding:"required,min=1"`
	GuestName    string `json:"guest_name" binding:"required,max=100"`
	GuestContact string `json:"guest_contact" binding:"required,max=100"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled completed"`
}
