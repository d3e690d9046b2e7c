package wire

import (
	"rental-booking/internal/adaptor"
	"rental-booking/internal/data/repository"
	"rental-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/properties/{id}/bookings - Upcoming and in-progress stays
	r.Get("/api/properties/{id}/bookings", bookingHandler.GetPropertyBookings)

	// GET /api/properties/{id}/availability - Per-night calendar
	r.Get("/api/properties/{id}/availability", bookingHandler.GetAvailability)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/properties/{id}/bookings - Request a stay (guests only)
		r.Post("/api/properties/{id}/bookings", bookingHandler.CreateBooking)

		// POST /api/properties/{id}/quote - Price a stay without booking it
		r.Post("/api/properties/{id}/quote", bookingHandler.QuoteStay)

		// GET /api/user/bookings - Booking history, newest first
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)

		// GET /api/user/bookings/{id} - One of the caller's bookings
		r.Get("/api/user/bookings/{id}", bookingHandler.GetUserBooking)

		// PUT /api/user/bookings/{id}/cancel - Cancel before check-in
		r.Put("/api/user/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// GET /api/user/properties/{id}/stayed - Review eligibility
		r.Get("/api/user/properties/{id}/stayed", bookingHandler.HasStayed)
	})
}
