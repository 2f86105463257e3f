package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/cabin-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/cabin-booking-backend/internal/unit"
)

type Handler struct {
	service unit.Service
}

func NewHandler(service unit.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListUnitsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter := unit.Filter{
		Active:    req.Active,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: strings.ToUpper(req.SortOrder),
	}

	units, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]UnitResponse, len(units))
	for i, u := range units {
		items[i] = NewUnitResponse(u)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewUnitResponse(u))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateUnitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	// New cabins are bookable unless explicitly created inactive.
	active := true
	if body.Active != nil {
		active = *body.Active
	}

	u, err := h.service.Create(c.Request.Context(), unit.CreateRequest{
		Name:         body.Name,
		MaxOccupancy: body.MaxOccupancy,
		BasePrice:    body.BasePrice,
		Active:       active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewUnitResponse(u))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateUnitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	u, err := h.service.Update(c.Request.Context(), uri.ID, unit.UpdateRequest{
		Name:         body.Name,
		MaxOccupancy: body.MaxOccupancy,
		BasePrice:    body.BasePrice,
		Active:       body.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewUnitResponse(u))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
