package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/cabin-booking-backend/internal/availability"
	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
	"github.com/nekogravitycat/cabin-booking-backend/internal/unit"
)

type fakeService struct {
	gotStay   daterange.DateRange
	gotGuests int
	offers    []availability.Offer
}

func (f *fakeService) FindAvailable(_ context.Context, stay daterange.DateRange, guests int) ([]availability.Offer, error) {
	f.gotStay, f.gotGuests = stay, guests
	return f.offers, nil
}

func setupRouter(svc availability.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	now := func() time.Time { return time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC) }
	RegisterRoutes(r.Group("/v1"), NewHandler(svc, now))
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

func TestSearch(t *testing.T) {
	svc := &fakeService{offers: []availability.Offer{{
		Unit:   &unit.Unit{ID: "a", Name: "Alder", MaxOccupancy: 4, BasePrice: decimal.NewFromInt(100), Active: true},
		Total:  decimal.NewFromInt(200),
		Nights: 2,
	}}}
	r := setupRouter(svc)

	t.Run("Success", func(t *testing.T) {
		w := executeRequest(r, "GET", "/v1/availability?check_in=2026-08-16&check_out=2026-08-18&guests=2", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp SearchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Offers, 1)
		assert.Equal(t, "Alder", resp.Offers[0].Unit.Name)
		assert.True(t, decimal.NewFromInt(200).Equal(resp.Offers[0].Total))
		assert.Equal(t, 2, svc.gotGuests)
		assert.Equal(t, "2026-08-16/2026-08-18", svc.gotStay.String())
	})

	t.Run("Inverted dates", func(t *testing.T) {
		w := executeRequest(r, "GET", "/v1/availability?check_in=2026-08-18&check_out=2026-08-16&guests=2", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing guests", func(t *testing.T) {
		w := executeRequest(r, "GET", "/v1/availability?check_in=2026-08-16&check_out=2026-08-18", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Empty result is not an error", func(t *testing.T) {
		r := setupRouter(&fakeService{})
		w := executeRequest(r, "GET", "/v1/availability?check_in=2026-08-16&check_out=2026-08-18&guests=9", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"offers":[]`)
	})
}

func TestParse(t *testing.T) {
	r := setupRouter(&fakeService{})

	t.Run("Uses the current year by default", func(t *testing.T) {
		w := executeRequest(r, "POST", "/v1/availability/parse", ParseRequest{Text: "del 16 al 18 de agosto"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp ParseResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "2026-08-16", resp.CheckIn)
		assert.Equal(t, "2026-08-18", resp.CheckOut)
		assert.Equal(t, 2, resp.Nights)
		assert.True(t, resp.Ordered)
	})

	t.Run("Explicit reference year", func(t *testing.T) {
		w := executeRequest(r, "POST", "/v1/availability/parse", ParseRequest{Text: "Aug 16-18", ReferenceYear: 2030})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"check_in":"2030-08-16"`)
	})

	t.Run("Unrecognised text", func(t *testing.T) {
		w := executeRequest(r, "POST", "/v1/availability/parse", ParseRequest{Text: "sometime soon"})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp ParseFailureResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "sometime soon", resp.Text)
		assert.NotEmpty(t, resp.Examples)
	})
}
