package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/blacktie-rides/limobooking/internal/domain"
	"github.com/blacktie-rides/limobooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type bookingResponse struct {
	ID              string               `json:"id"`
	Date            string               `json:"date"`
	Time            string               `json:"time"`
	PickupLocation  string               `json:"pickup_location"`
	DropoffLocation string               `json:"dropoff_location"`
	VehicleClass    string               `json:"vehicle_class"`
	Passengers      int                  `json:"passengers"`
	Luggage         int                  `json:"luggage"`
	SpecialRequests string               `json:"special_requests,omitempty"`
	Status          string               `json:"status"`
	AuditTrail      []auditEntryResponse `json:"audit_trail"`
}

type auditEntryResponse struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}

type bookingListResponse struct {
	Upcoming []bookingResponse `json:"upcoming"`
	Past     []bookingResponse `json:"past"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.cancel)
	router.POST("/:id/confirm", h.confirm)
	router.POST("/:id/complete", h.complete)
	router.GET("/:id/audit", h.auditTrail)
}

func (h *BookingHandler) create(c *gin.Context) {
	var draft domain.BookingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), draft)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	list, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	resp := bookingListResponse{
		Upcoming: []bookingResponse{},
		Past:     []bookingResponse{},
	}
	for _, b := range list.Upcoming {
		resp.Upcoming = append(resp.Upcoming, toResponse(&b))
	}
	for _, b := range list.Past {
		resp.Past = append(resp.Past, toResponse(&b))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) get(c *gin.Context) {
	found, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toResponse(found))
}

func (h *BookingHandler) update(c *gin.Context) {
	var draft domain.BookingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateBooking(c.Request.Context(), c.Param("id"), draft)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toResponse(updated))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	cancelled, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toResponse(cancelled))
}

func (h *BookingHandler) confirm(c *gin.Context) {
	confirmed, err := h.service.ConfirmBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toResponse(confirmed))
}

func (h *BookingHandler) complete(c *gin.Context) {
	completed, err := h.service.CompleteBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toResponse(completed))
}

func (h *BookingHandler) auditTrail(c *gin.Context) {
	trail, err := h.service.AuditTrail(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	entries := make([]auditEntryResponse, 0, len(trail))
	for _, e := range trail {
		entries = append(entries, toAuditResponse(e))
	}
	c.JSON(http.StatusOK, gin.H{"audit_trail": entries})
}

// statusFor maps the domain error taxonomy onto HTTP status codes:
// validation problems are the caller's to fix, lifecycle conflicts are 409,
// everything else is an internal failure.
func statusFor(err error) int {
	var missing *domain.MissingFieldError
	var capacity *domain.CapacityExceededError
	switch {
	case errors.As(err, &missing), errors.As(err, &capacity), errors.Is(err, domain.ErrUnknownVehicleClass):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrImmutableBookingState),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, booking.ErrBookingBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func toResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:              b.ID,
		Date:            b.Date,
		Time:            b.Time,
		PickupLocation:  b.PickupLocation,
		DropoffLocation: b.DropoffLocation,
		VehicleClass:    b.VehicleClass,
		Passengers:      b.Passengers,
		Luggage:         b.Luggage,
		SpecialRequests: b.SpecialRequests,
		Status:          string(b.Status),
	}
	for _, e := range b.AuditTrail {
		resp.AuditTrail = append(resp.AuditTrail, toAuditResponse(e))
	}
	return resp
}

func toAuditResponse(e domain.AuditEntry) auditEntryResponse {
	return auditEntryResponse{
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Action:    string(e.Action),
		Details:   e.Details,
	}
}
