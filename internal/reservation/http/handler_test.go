package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
	"github.com/nekogravitycat/cabin-booking-backend/internal/reservation"
)

type fakeService struct {
	reservation.Service
	createErr error
	gotCreate reservation.CreateRequest
	gotFilter reservation.Filter
}

func (f *fakeService) Create(_ context.Context, req reservation.CreateRequest) (*reservation.Reservation, error) {
	f.gotCreate = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &reservation.Reservation{
		ID:         uuid.NewString(),
		UnitID:     req.UnitID,
		UnitName:   "Alder",
		CheckIn:    req.Stay.Start,
		CheckOut:   req.Stay.End,
		Guests:     req.Guests,
		GuestName:  req.GuestName,
		TotalPrice: decimal.NewFromInt(260),
		Status:     reservation.StatusPending,
	}, nil
}

func (f *fakeService) List(_ context.Context, filter reservation.Filter) ([]*reservation.Reservation, int, error) {
	f.gotFilter = filter
	return nil, 0, nil
}

func setupRouter(svc reservation.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	pass := func(c *gin.Context) { c.Next() }
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), pass)
	return r
}

func executeRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validBody(unitID string) CreateReservationRequest {
	return CreateReservationRequest{
		UnitID:       unitID,
		CheckIn:      "2026-08-16",
		CheckOut:     "2026-08-18",
		Guests:       2,
		GuestName:    "Ana",
		GuestContact: "+54 9 11 5555 0000",
	}
}

func TestCreate(t *testing.T) {
	svc := &fakeService{}
	r := setupRouter(svc)
	unitID := uuid.NewString()

	w := executeRequest(r, http.MethodPost, "/v1/reservations", validBody(unitID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Equal(t, daterange.Day(2026, 8, 16), svc.gotCreate.Stay.Start)
	assert.Equal(t, daterange.Day(2026, 8, 18), svc.gotCreate.Stay.End)

	var resp ReservationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, unitID, resp.Unit.ID)
	assert.Equal(t, 2, resp.Nights)
	assert.Equal(t, "pending", resp.Status)
	assert.True(t, decimal.NewFromInt(260).Equal(resp.TotalPrice))
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(b *CreateReservationRequest)
		serviceErr error
		wantStatus int
	}{
		{
			name:       "Unit id is not a uuid",
			mutate:     func(b *CreateReservationRequest) { b.UnitID = "cabin-1" },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Bad date format",
			mutate:     func(b *CreateReservationRequest) { b.CheckIn = "16/08/2026" },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Check-out before check-in",
			mutate:     func(b *CreateReservationRequest) { b.CheckOut = "2026-08-15" },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Someone just booked it",
			serviceErr: reservation.ErrConflict,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "Check-in in the past",
			serviceErr: reservation.ErrCheckInPast,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(&fakeService{createErr: tt.serviceErr})
			body := validBody(uuid.NewString())
			if tt.mutate != nil {
				tt.mutate(&body)
			}

			w := executeRequest(r, http.MethodPost, "/v1/reservations", body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestList_Filters(t *testing.T) {
	svc := &fakeService{}
	r := setupRouter(svc)

	w := executeRequest(r, http.MethodGet, "/v1/reservations?status=confirmed&from=2026-08-01&to=2026-09-01&sort_order=asc", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "confirmed", svc.gotFilter.Status)
	assert.Equal(t, "ASC", svc.gotFilter.SortOrder)
	require.NotNil(t, svc.gotFilter.From)
	assert.Equal(t, daterange.Day(2026, 8, 1), *svc.gotFilter.From)
	require.NotNil(t, svc.gotFilter.To)

	w = executeRequest(r, http.MethodGet, "/v1/reservations?from=2026-09-01&to=2026-08-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
