package http

import (
	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/cabin-booking-backend/internal/chat"
	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
)

type MessageRequest struct {
	UserID string `json:"user_id" binding:"required,max=128"`
	Text   string `json:"text" binding:"required,max=1000"`
}

type OfferResponse struct {
	Index        int             `json:"index"`
	UnitID       string          `json:"unit_id"`
	Name         string          `json:"name"`
	MaxOccupancy int             `json:"max_occupancy"`
	Total        decimal.Decimal `json:"total"`
	Nights       int             `json:"nights"`
}

type MessageResponse struct {
	Handled  bool            `json:"handled"`
	State    string          `json:"state,omitempty"`
	Kind     string          `json:"kind,omitempty"`
	Text     string          `json:"text,omitempty"`
	Offers   []OfferResponse `json:"offers,omitempty"`
	DeepLink string          `json:"deep_link,omitempty"`
}

func NewMessageResponse(sess chat.Session, reply chat.Reply) MessageResponse {
	if reply.Kind == chat.ReplyDisabled {
		return MessageResponse{Handled: false}
	}
	resp := MessageResponse{
		Handled:  true,
		State:    string(sess.State),
		Kind:     string(reply.Kind),
		Text:     reply.Text,
		DeepLink: reply.DeepLink,
	}
	for _, o := range reply.Offers {
		resp.Offers = append(resp.Offers, OfferResponse{
			Index:        o.Index,
			UnitID:       o.UnitID,
			Name:         o.Name,
			MaxOccupancy: o.MaxOccupancy,
			Total:        o.Total,
			Nights:       o.Nights,
		})
	}
	return resp
}

type SessionURI struct {
	UserID string `uri:"user_id" binding:"required,max=128"`
}

type VerifyLinkRequest struct {
	Token string `json:"token" binding:"required"`
}

type BookingIntentResponse struct {
	UnitID   string          `json:"unit_id"`
	UnitName string          `json:"unit_name"`
	CheckIn  string          `json:"check_in"`
	CheckOut string          `json:"check_out"`
	Guests   int             `json:"guests"`
	Total    decimal.Decimal `json:"total"`
	Ref      string          `json:"ref"`
}

func NewBookingIntentResponse(i *chat.BookingIntent) BookingIntentResponse {
	return BookingIntentResponse{
		UnitID:   i.UnitID,
		UnitName: i.UnitName,
		CheckIn:  i.Stay.Start.Format(daterange.Layout),
		CheckOut: i.Stay.End.Format(daterange.Layout),
		Guests:   i.Guests,
		Total:    i.Total,
		Ref:      i.Ref,
	}
}
