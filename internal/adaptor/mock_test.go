package adaptor_test

import (
	"context"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/dto/request"
	"rental-booking/internal/dto/response"
	"rental-booking/internal/usecase"
)

// mockBookingService is a test double for usecase.BookingService.
// Set only the method fields your test needs.
type mockBookingService struct {
	requestBooking      func(ctx context.Context, requester entity.Requester, propertyID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	quoteStay           func(ctx context.Context, requester entity.Requester, propertyID string, req *request.QuoteStayRequest) (*response.QuoteResponse, error)
	cancelBooking       func(ctx context.Context, requester entity.Requester, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error)
	getGuestBookings    func(ctx context.Context, requester entity.Requester, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	getGuestBooking     func(ctx context.Context, requester entity.Requester, bookingID string) (*response.BookingResponse, error)
	hasStayed           func(ctx context.Context, requester entity.Requester, propertyID string) (*response.StayedResponse, error)
	getPropertyBookings func(ctx context.Context, propertyID string) ([]response.StayResponse, error)
	getAvailability     func(ctx context.Context, propertyID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
}

var _ usecase.BookingService = (*mockBookingService)(nil)

func (m *mockBookingService) RequestBooking(ctx context.Context, requester entity.Requester, propertyID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	return m.requestBooking(ctx, requester, propertyID, req)
}
func (m *mockBookingService) QuoteStay(ctx context.Context, requester entity.Requester, propertyID string, req *request.QuoteStayRequest) (*response.QuoteResponse, error) {
	return m.quoteStay(ctx, requester, propertyID, req)
}
func (m *mockBookingService) CancelBooking(ctx context.Context, requester entity.Requester, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	return m.cancelBooking(ctx, requester, bookingID, req)
}
func (m *mockBookingService) GetGuestBookings(ctx context.Context, requester entity.Requester, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	return m.getGuestBookings(ctx, requester, req)
}
func (m *mockBookingService) GetGuestBooking(ctx context.Context, requester entity.Requester, bookingID string) (*response.BookingResponse, error) {
	return m.getGuestBooking(ctx, requester, bookingID)
}
func (m *mockBookingService) HasStayed(ctx context.Context, requester entity.Requester, propertyID string) (*response.StayedResponse, error) {
	return m.hasStayed(ctx, requester, propertyID)
}
func (m *mockBookingService) GetPropertyBookings(ctx context.Context, propertyID string) ([]response.StayResponse, error) {
	return m.getPropertyBookings(ctx, propertyID)
}
func (m *mockBookingService) GetAvailability(ctx context.Context, propertyID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	return m.getAvailability(ctx, propertyID, req)
}

type mockReconcileService struct {
	reconcile func(ctx context.Context, asOf time.Time) (*response.ReconcileResponse, error)
}

var _ usecase.ReconcileService = (*mockReconcileService)(nil)

func (m *mockReconcileService) ReconcileStatuses(ctx context.Context, asOf time.Time) (*response.ReconcileResponse, error) {
	return m.reconcile(ctx, asOf)
}
