package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/cabin-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pricing"
)

type Handler struct {
	service pricing.Service
}

func NewHandler(service pricing.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	overrides, err := h.service.List(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PriceOverrideResponse, len(overrides))
	for i, o := range overrides {
		items[i] = NewPriceOverrideResponse(o)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, 1, len(items), len(items)))
}

func (h *Handler) Get(c *gin.Context) {
	var uri OverrideURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), uri.UnitID, uri.OverrideID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPriceOverrideResponse(o))
}

func (h *Handler) Create(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body CreatePriceOverrideRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	active := true
	if body.Active != nil {
		active = *body.Active
	}

	o, err := h.service.Create(c.Request.Context(), pricing.CreateRequest{
		UnitID:   uri.ID,
		Start:    parseDate(body.StartDate),
		End:      parseDate(body.EndDate),
		Price:    body.Price,
		Priority: body.Priority,
		Active:   active,
		Category: pricing.Category(body.Category),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPriceOverrideResponse(o))
}

func (h *Handler) Update(c *gin.Context) {
	var uri OverrideURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdatePriceOverrideRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	req := pricing.UpdateRequest{
		Price:    body.Price,
		Priority: body.Priority,
		Active:   body.Active,
	}
	if body.StartDate != nil {
		start := parseDate(*body.StartDate)
		req.Start = &start
	}
	if body.EndDate != nil {
		end := parseDate(*body.EndDate)
		req.End = &end
	}
	if body.Category != nil {
		category := pricing.Category(*body.Category)
		req.Category = &category
	}

	o, err := h.service.Update(c.Request.Context(), uri.UnitID, uri.OverrideID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPriceOverrideResponse(o))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri OverrideURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.UnitID, uri.OverrideID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
