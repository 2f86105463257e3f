package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/cabin-booking-backend/internal/availability"
	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pkg/response"
)

type Handler struct {
	service availability.Service
	now     func() time.Time
}

// NewHandler builds the handler. now decides the year assumed for dates typed without one.
func NewHandler(service availability.Service, now func() time.Time) *Handler {
	return &Handler{service: service, now: now}
}

func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	stay, err := daterange.ParseDates(req.CheckIn, req.CheckOut)
	if err != nil {
		response.Error(c, err)
		return
	}

	offers, err := h.service.FindAvailable(c.Request.Context(), stay, req.Guests)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSearchResponse(stay, req.Guests, offers))
}

func (h *Handler) Parse(c *gin.Context) {
	var body ParseRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	year := body.ReferenceYear
	if year == 0 {
		year = h.now().Year()
	}

	stay, err := daterange.Parse(body.Text, year)
	if err != nil {
		var failure *daterange.ParseFailure
		if errors.As(err, &failure) {
			c.JSON(http.StatusUnprocessableEntity, ParseFailureResponse{
				Error:    "could not find a check-in and check-out date in the text",
				Text:     failure.Text,
				Examples: parseExamples,
			})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ParseResponse{
		CheckIn:  stay.Start.Format(daterange.Layout),
		CheckOut: stay.End.Format(daterange.Layout),
		Nights:   stay.Nights(),
		Ordered:  stay.Valid(),
	})
}
