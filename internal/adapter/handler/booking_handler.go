package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/srgjo27/venue_booking/internal/core/domain"
	"github.com/srgjo27/venue_booking/internal/core/services"
)

// BookingService is the part of the engine exposed over HTTP.
type BookingService interface {
	CheckAvailability(ctx context.Context, raw services.RawBookingRequest, exclude *uuid.UUID) (*services.AvailabilityResult, error)
	PriceQuote(ctx context.Context, raw services.RawBookingRequest) (*domain.PriceBreakdown, error)
	SubmitBooking(ctx context.Context, raw services.RawBookingRequest, editingID *uuid.UUID) (*services.Admission, error)
	GetBooking(ctx context.Context, tenantID string, bookingID uuid.UUID) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, tenantID string, bookingID uuid.UUID, next domain.BookingStatus) (*domain.Booking, error)
	CancelBooking(ctx context.Context, tenantID string, bookingID uuid.UUID) (*domain.Booking, error)
}

type BookingHandler struct {
	svc BookingService
}

func NewBookingHandler(svc BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tenant := rg.Group("/tenants/:tenant_id")
	tenant.POST("/availability", h.CheckAvailability)
	tenant.POST("/quotes", h.PriceQuote)
	tenant.POST("/bookings", h.CreateBooking)
	tenant.GET("/bookings/:id", h.GetBooking)
	tenant.PUT("/bookings/:id", h.EditBooking)
	tenant.PATCH("/bookings/:id/status", h.UpdateStatus)
	tenant.DELETE("/bookings/:id", h.CancelBooking)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	raw, ok := bindRaw(c)
	if !ok {
		return
	}

	var exclude *uuid.UUID
	if v := c.Query("exclude_booking_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			errorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid booking id", gin.H{"field": "exclude_booking_id"})
			return
		}
		exclude = &id
	}

	result, err := h.svc.CheckAvailability(c.Request.Context(), raw, exclude)
	if err != nil {
		writeError(c, err)
		return
	}

	success(c, http.StatusOK, result)
}

func (h *BookingHandler) PriceQuote(c *gin.Context) {
	raw, ok := bindRaw(c)
	if !ok {
		return
	}

	price, err := h.svc.PriceQuote(c.Request.Context(), raw)
	if err != nil {
		writeError(c, err)
		return
	}

	success(c, http.StatusOK, gin.H{
		"price":                  price,
		"pending_manual_pricing": price.PendingManualPricing(),
	})
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	raw, ok := bindRaw(c)
	if !ok {
		return
	}

	admission, err := h.svc.SubmitBooking(c.Request.Context(), raw, nil)
	if err != nil {
		writeError(c, err)
		return
	}

	success(c, http.StatusCreated, admission)
}

func (h *BookingHandler) EditBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	raw, ok := bindRaw(c)
	if !ok {
		return
	}

	admission, err := h.svc.SubmitBooking(c.Request.Context(), raw, &id)
	if err != nil {
		writeError(c, err)
		return
	}

	success(c, http.StatusOK, admission)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.svc.GetBooking(c.Request.Context(), c.Param("tenant_id"), id)
	if err != nil {
		writeError(c, err)
		return
	}

	success(c, http.StatusOK, b)
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", gin.H{"field": "status"})
		return
	}

	b, err := h.svc.UpdateBookingStatus(c.Request.Context(), c.Param("tenant_id"), id, domain.BookingStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}

	success(c, http.StatusOK, b)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.svc.CancelBooking(c.Request.Context(), c.Param("tenant_id"), id)
	if err != nil {
		writeError(c, err)
		return
	}

	success(c, http.StatusOK, b)
}

func bindRaw(c *gin.Context) (services.RawBookingRequest, bool) {
	var raw services.RawBookingRequest
	if err := c.ShouldBindJSON(&raw); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return raw, false
	}
	raw.TenantID = c.Param("tenant_id")
	return raw, true
}

func bookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid booking id", gin.H{"field": "id"})
		return uuid.Nil, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		conflictErr   *domain.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		errorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Error(), gin.H{
			"field":  validationErr.Field,
			"reason": validationErr.Reason,
		})
	case errors.As(err, &conflictErr):
		errorWithDetails(c, http.StatusConflict, "BOOKING_CONFLICT", "requested slot overlaps existing bookings", gin.H{
			"conflicts": conflictErr.Conflicts,
		})
	case errors.Is(err, domain.ErrConcurrency):
		c.Header("Retry-After", "1")
		errorResponse(c, http.StatusServiceUnavailable, "RETRY_LATER", "resources are busy, retry shortly")
	case errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrResourceNotFound),
		errors.Is(err, domain.ErrTenantNotFound):
		errorResponse(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		errorResponse(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	default:
		_ = c.Error(err)
		errorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
