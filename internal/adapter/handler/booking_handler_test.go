package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/srgjo27/venue_booking/internal/adapter/lock"
	"github.com/srgjo27/venue_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/venue_booking/internal/core/domain"
	"github.com/srgjo27/venue_booking/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details,omitempty"`
	} `json:"error,omitempty"`
}

func newTestRouter(t *testing.T, svc BookingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	NewBookingHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func newTestService(t *testing.T) *services.BookingService {
	store := memory.NewStore()
	store.AddTenant(domain.Tenant{ID: "t1", Name: "Grand Venue", Location: time.UTC})
	require.NoError(t, store.AddResource(domain.Resource{ID: "hall-1", TenantID: "t1", Name: "Hall 1"}))
	store.SetRates("hall-1", []domain.RateRule{{
		ID:         "hall-1-default",
		ResourceID: "hall-1",
		Pricing:    domain.Pricing{Kind: domain.PricingHourly, Amount: 5000},
	}})

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	return services.NewBookingService(store, store, store, store, lock.NewMemoryLocker(),
		services.DefaultConfig(), zap.NewNop(),
		services.WithClock(func() time.Time { return now }),
	)
}

func bookingBody(start, end string) map[string]interface{} {
	return map[string]interface{}{
		"customer_name": "Jane Doe",
		"email":         "jane@example.com",
		"phone":         "+1 555 123 4567",
		"date":          "2025-06-02",
		"start_time":    start,
		"end_time":      end,
		"resource_ids":  []string{"hall-1"},
	}
}

func doRequest(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, testResponse) {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp testResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func TestCreateBooking_CommitsAndRejectsOverlap(t *testing.T) {
	r := newTestRouter(t, newTestService(t))

	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/tenants/t1/bookings", bookingBody("10:00", "13:00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, resp.Success)

	var admission services.Admission
	require.NoError(t, json.Unmarshal(resp.Data, &admission))
	assert.Equal(t, domain.Money(15000), admission.Price.Total)
	assert.Equal(t, services.StageCommitted, admission.Stage)

	w, resp = doRequest(t, r, http.MethodPost, "/api/v1/tenants/t1/bookings", bookingBody("12:00", "14:00"))
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BOOKING_CONFLICT", resp.Error.Code)
	assert.Len(t, resp.Error.Details["conflicts"], 1)

	w, _ = doRequest(t, r, http.MethodPost, "/api/v1/tenants/t1/bookings", bookingBody("13:00", "14:00"))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateBooking_ValidationError(t *testing.T) {
	r := newTestRouter(t, newTestService(t))
	body := bookingBody("10:00", "11:00")
	body["email"] = "not-an-email"

	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/tenants/t1/bookings", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "email", resp.Error.Details["field"])
}

func TestCreateBooking_InvalidJSON(t *testing.T) {
	r := newTestRouter(t, newTestService(t))

	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/tenants/t1/bookings", "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestCheckAvailabilityAndQuote(t *testing.T) {
	r := newTestRouter(t, newTestService(t))

	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/tenants/t1/availability", bookingBody("10:00", "11:00"))
	require.Equal(t, http.StatusOK, w.Code)
	var avail services.AvailabilityResult
	require.NoError(t, json.Unmarshal(resp.Data, &avail))
	assert.True(t, avail.OK)

	w, _ = doRequest(t, r, http.MethodPost, "/api/v1/tenants/t1/bookings", bookingBody("10:00", "11:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp = doRequest(t, r, http.MethodPost, "/api/v1/tenants/t1/availability", bookingBody("10:30", "11:30"))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &avail))
	assert.False(t, avail.OK)
	assert.Len(t, avail.Conflicts, 1)

	w, resp = doRequest(t, r, http.MethodPost, "/api/v1/tenants/t1/quotes", bookingBody("10:30", "11:30"))
	require.Equal(t, http.StatusOK, w.Code)
	var quote struct {
		Price   domain.PriceBreakdown `json:"price"`
		Pending bool                  `json:"pending_manual_pricing"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &quote))
	assert.Equal(t, domain.Money(5000), quote.Price.Total)
	assert.False(t, quote.Pending)
}

func TestBookingLifecycle(t *testing.T) {
	r := newTestRouter(t, newTestService(t))

	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/tenants/t1/bookings", bookingBody("10:00", "11:00"))
	require.Equal(t, http.StatusCreated, w.Code)
	var admission services.Admission
	require.NoError(t, json.Unmarshal(resp.Data, &admission))
	path := "/api/v1/tenants/t1/bookings/" + admission.BookingID.String()

	w, resp = doRequest(t, r, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var b domain.Booking
	require.NoError(t, json.Unmarshal(resp.Data, &b))
	assert.Equal(t, domain.BookingPending, b.Status())

	w, _ = doRequest(t, r, http.MethodPut, path, bookingBody("10:30", "12:00"))
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = doRequest(t, r, http.MethodPatch, path+"/status", map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &b))
	assert.Equal(t, domain.BookingConfirmed, b.Status())

	w, resp = doRequest(t, r, http.MethodPatch, path+"/status", map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", resp.Error.Code)

	w, _ = doRequest(t, r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, r, http.MethodPut, path, bookingBody("10:30", "12:00"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetBooking_NotFoundAndBadID(t *testing.T) {
	r := newTestRouter(t, newTestService(t))

	w, resp := doRequest(t, r, http.MethodGet, "/api/v1/tenants/t1/bookings/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	w, resp = doRequest(t, r, http.MethodGet, "/api/v1/tenants/t1/bookings/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "id", resp.Error.Details["field"])
}

type busyService struct {
	BookingService
}

func (busyService) SubmitBooking(context.Context, services.RawBookingRequest, *uuid.UUID) (*services.Admission, error) {
	return nil, &domain.ConcurrencyError{Op: "acquire lock"}
}

type panickyService struct {
	BookingService
}

func (panickyService) PriceQuote(context.Context, services.RawBookingRequest) (*domain.PriceBreakdown, error) {
	panic("boom")
}

func TestCreateBooking_Contended(t *testing.T) {
	r := newTestRouter(t, busyService{})

	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/tenants/t1/bookings", bookingBody("10:00", "11:00"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "RETRY_LATER", resp.Error.Code)
}

func TestRequestLogger_RecoversPanic(t *testing.T) {
	r := newTestRouter(t, panickyService{})

	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/tenants/t1/quotes", bookingBody("10:00", "11:00"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
}
