package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"rental-booking/internal/dto/request"
	"rental-booking/internal/usecase"
	"rental-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/properties/{id}/bookings (guest)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	requester, ok := utils.GetRequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.RequestBooking(r.Context(), requester, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking confirmed", booking)
}

// QuoteStay handles POST /api/properties/{id}/quote (guest)
func (h *BookingHandler) QuoteStay(w http.ResponseWriter, r *http.Request) {
	requester, ok := utils.GetRequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.QuoteStayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	quote, err := h.service.QuoteStay(r.Context(), requester, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "quote stay")
		return
	}

	utils.ResponseSuccess(w, "success", quote)
}

// GetPropertyBookings handles GET /api/properties/{id}/bookings (public)
func (h *BookingHandler) GetPropertyBookings(w http.ResponseWriter, r *http.Request) {
	stays, err := h.service.GetPropertyBookings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get property bookings")
		return
	}

	utils.ResponseSuccess(w, "success", stays)
}

// GetAvailability handles GET /api/properties/{id}/availability?from=&to= (public)
func (h *BookingHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.AvailabilityRequest{
		From: query.Get("from"),
		To:   query.Get("to"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	availability, err := h.service.GetAvailability(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	requester, ok := utils.GetRequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), utils.DefaultPerPage),
	}

	bookings, err := h.service.GetGuestBookings(r.Context(), requester, req)
	if err != nil {
		handleServiceError(h.log, w, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetUserBooking handles GET /api/user/bookings/{id} (protected)
func (h *BookingHandler) GetUserBooking(w http.ResponseWriter, r *http.Request) {
	requester, ok := utils.GetRequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	booking, err := h.service.GetGuestBooking(r.Context(), requester, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get user booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PUT /api/user/bookings/{id}/cancel (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	requester, ok := utils.GetRequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	// The reason is optional, so an empty body is fine.
	var req request.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), requester, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", booking)
}

// HasStayed handles GET /api/user/properties/{id}/stayed (protected)
func (h *BookingHandler) HasStayed(w http.ResponseWriter, r *http.Request) {
	requester, ok := utils.GetRequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	stayed, err := h.service.HasStayed(r.Context(), requester, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "check stay history")
		return
	}

	utils.ResponseSuccess(w, "success", stayed)
}
