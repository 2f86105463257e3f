package http

import (
	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/cabin-booking-backend/internal/availability"
	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
	unitHttp "github.com/nekogravitycat/cabin-booking-backend/internal/unit/http"
)

type SearchRequest struct {
	CheckIn  string `form:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut string `form:"check_out" binding:"required,datetime=2006-01-02"`
	Guests   int    `form:"guests" binding:"required,min=1"`
}

type OfferResponse struct {
	Unit   unitHttp.UnitResponse `json:"unit"`
	Total  decimal.Decimal       `json:"total"`
	Nights int                   `json:"nights"`
}

type SearchResponse struct {
	CheckIn  string          `json:"check_in"`
	CheckOut string          `json:"check_out"`
	Guests   int             `json:"guests"`
	Offers   []OfferResponse `json:"offers"`
}

func NewSearchResponse(stay daterange.DateRange, guests int, offers []availability.Offer) SearchResponse {
	items := make([]OfferResponse, len(offers))
	for i, o := range offers {
		items[i] = OfferResponse{
			Unit:   unitHttp.NewUnitResponse(o.Unit),
			Total:  o.Total,
			Nights: o.Nights,
		}
	}
	return SearchResponse{
		CheckIn:  stay.Start.Format(daterange.Layout),
		CheckOut: stay.End.Format(daterange.Layout),
		Guests:   guests,
		Offers:   items,
	}
}

type ParseRequest struct {
	Text          string `json:"text" binding:"required,max=500"`
	ReferenceYear int    `json:"reference_year" binding:"omitempty,min=1900,max=9999"`
}

type ParseResponse struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Nights   int    `json:"nights"`
	// Ordered is false when the text names the later date first.
	Ordered bool `json:"ordered"`
}

type ParseFailureResponse struct {
	Error    string   `json:"error"`
	Text     string   `json:"text"`
	Examples []string `json:"examples"`
}

// parseExamples are shown when free text could not be read as dates.
var parseExamples = []string{
	"Aug 16 to Aug 18",
	"16/08 - 18/08",
	"del 16 al 18 de agosto",
	"2026-08-16 to 2026-08-18",
}
