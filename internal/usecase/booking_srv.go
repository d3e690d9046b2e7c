package usecase

import (
	"context"
	"fmt"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/dto/request"
	"rental-booking/internal/dto/response"
	"rental-booking/pkg/mq"
	"rental-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxAvailabilityDays bounds a single calendar request.
const maxAvailabilityDays = 366

// maxStayNights bounds a single booking so one request cannot hold a
// property indefinitely and totals fit the stored precision.
const maxStayNights = 365

type BookingService interface {
	// Guest operations
	RequestBooking(ctx context.Context, requester entity.Requester, propertyID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	QuoteStay(ctx context.Context, requester entity.Requester, propertyID string, req *request.QuoteStayRequest) (*response.QuoteResponse, error)
	CancelBooking(ctx context.Context, requester entity.Requester, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error)
	GetGuestBookings(ctx context.Context, requester entity.Requester, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetGuestBooking(ctx context.Context, requester entity.Requester, bookingID string) (*response.BookingResponse, error)
	HasStayed(ctx context.Context, requester entity.Requester, propertyID string) (*response.StayedResponse, error)

	// Property calendar
	GetPropertyBookings(ctx context.Context, propertyID string) ([]response.StayResponse, error)
	GetAvailability(ctx context.Context, propertyID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
}

type bookingService struct {
	bookings   repository.BookingRepository
	properties repository.PropertyRepository
	events     EventPublisher
	clock      utils.Clock
	log        *zap.Logger
}

func NewBookingService(repo *repository.Repository, events EventPublisher, clock utils.Clock, log *zap.Logger) BookingService {
	return &bookingService{
		bookings:   repo.Booking,
		properties: repo.Property,
		events:     events,
		clock:      clock,
		log:        log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) RequestBooking(ctx context.Context, requester entity.Requester, propertyID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if !requester.IsGuest() {
		return nil, entity.ErrGuestRoleRequired
	}

	property, err := s.findProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	today := utils.Today(s.clock)
	if err := validateStay(property, checkIn, checkOut, req.GuestCount, today); err != nil {
		return nil, err
	}

	nights := utils.DaysBetween(checkIn, checkOut)
	now := s.clock.Now()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PropertyID:      property.ID,
		GuestID:         requester.ID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		GuestCount:      req.GuestCount,
		NightlyRate:     property.PricePerNight,
		TotalPrice:      stayPrice(property.PricePerNight, nights),
		Status:          entity.BookingStatusConfirmed,
		SpecialRequests: req.SpecialRequests,
		ConfirmedAt:     &now,
	}

	// The overlap check and the insert happen in one store transaction.
	if err := s.bookings.CreateIfAvailable(ctx, booking); err != nil {
		return nil, fmt.Errorf("request booking for property %s: %w", property.ID, err)
	}

	s.log.Info("Booking confirmed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("property_id", property.ID.String()),
		zap.String("guest_id", requester.ID.String()),
		zap.String("check_in", utils.FormatDate(checkIn)),
		zap.String("check_out", utils.FormatDate(checkOut)),
		zap.Int("nights", nights),
		zap.String("total_price", booking.TotalPrice.String()),
	)

	s.publish(ctx, mq.KeyBookingCreated, booking)

	resp := response.BookingToResponse(booking, today)
	return &resp, nil
}

func (s *bookingService) QuoteStay(ctx context.Context, requester entity.Requester, propertyID string, req *request.QuoteStayRequest) (*response.QuoteResponse, error) {
	if !requester.IsGuest() {
		return nil, entity.ErrGuestRoleRequired
	}

	property, err := s.findProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	if err := validateStay(property, checkIn, checkOut, req.GuestCount, utils.Today(s.clock)); err != nil {
		return nil, err
	}

	overlapping, err := s.bookings.FindOverlapping(ctx, property.ID, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("quote stay: %w", err)
	}

	nights := utils.DaysBetween(checkIn, checkOut)
	return &response.QuoteResponse{
		PropertyID:  property.ID.String(),
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		Nights:      nights,
		GuestCount:  req.GuestCount,
		NightlyRate: property.PricePerNight,
		TotalPrice:  stayPrice(property.PricePerNight, nights),
		Available:   len(overlapping) == 0,
	}, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, requester entity.Requester, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking %q: %w", bookingID, entity.ErrBookingNotFound)
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cancel booking %s: %w", id, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", id, entity.ErrBookingNotFound)
	}

	if booking.GuestID != requester.ID {
		s.log.Warn("Cancel attempt by non-owner",
			zap.String("booking_id", id.String()),
			zap.String("requester_id", requester.ID.String()),
		)
		return nil, entity.ErrNotOwner
	}
	if booking.Status != entity.BookingStatusConfirmed {
		return nil, fmt.Errorf("booking %s is %s: %w", id, booking.Status, entity.ErrNotCancellable)
	}

	today := utils.Today(s.clock)
	if !booking.CheckIn.After(today) {
		return nil, entity.ErrAlreadyStarted
	}

	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	// Conditional on the row still being confirmed; a concurrent transition
	// wins and this returns ErrNotCancellable.
	cancelled, err := s.bookings.Cancel(ctx, id, s.clock.Now(), reason)
	if err != nil {
		return nil, fmt.Errorf("cancel booking %s: %w", id, err)
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", id.String()),
		zap.String("property_id", cancelled.PropertyID.String()),
		zap.Bool("has_reason", reason != nil),
	)

	s.publish(ctx, mq.KeyBookingCancelled, cancelled)

	resp := response.BookingToResponse(cancelled, today)
	return &resp, nil
}

func (s *bookingService) GetGuestBookings(ctx context.Context, requester entity.Requester, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	bookings, err := s.bookings.FindByGuestID(ctx, requester.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get guest bookings: %w", err)
	}

	total, err := s.bookings.CountByGuestID(ctx, requester.ID)
	if err != nil {
		return nil, fmt.Errorf("count guest bookings: %w", err)
	}

	today := utils.Today(s.clock)
	items := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = response.BookingToResponse(b, today)
	}

	return response.NewPaginatedResponse(items, req.Page, limit, total), nil
}

func (s *bookingService) GetGuestBooking(ctx context.Context, requester entity.Requester, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking %q: %w", bookingID, entity.ErrBookingNotFound)
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	// Other guests' bookings are indistinguishable from missing ones.
	if booking == nil || booking.GuestID != requester.ID {
		return nil, fmt.Errorf("booking %s: %w", id, entity.ErrBookingNotFound)
	}

	resp := response.BookingToResponse(booking, utils.Today(s.clock))
	return &resp, nil
}

func (s *bookingService) HasStayed(ctx context.Context, requester entity.Requester, propertyID string) (*response.StayedResponse, error) {
	property, err := s.findProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	stayed, err := s.bookings.ExistsForGuest(ctx, requester.ID, property.ID,
		[]entity.BookingStatus{entity.BookingStatusConfirmed, entity.BookingStatusCompleted})
	if err != nil {
		return nil, fmt.Errorf("has stayed: %w", err)
	}

	return &response.StayedResponse{PropertyID: property.ID.String(), HasStayed: stayed}, nil
}

func (s *bookingService) GetPropertyBookings(ctx context.Context, propertyID string) ([]response.StayResponse, error) {
	property, err := s.findProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.FindActiveByProperty(ctx, property.ID, utils.Today(s.clock))
	if err != nil {
		return nil, fmt.Errorf("get property bookings: %w", err)
	}

	stays := make([]response.StayResponse, len(bookings))
	for i, b := range bookings {
		stays[i] = response.BookingToStay(b)
	}
	return stays, nil
}

func (s *bookingService) GetAvailability(ctx context.Context, propertyID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	property, err := s.findProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	from, to, err := parseStay(req.From, req.To)
	if err != nil {
		return nil, err
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", entity.ErrValidation)
	}
	days := utils.DaysBetween(from, to)
	if days > maxAvailabilityDays {
		return nil, fmt.Errorf("%w: range exceeds %d days", entity.ErrValidation, maxAvailabilityDays)
	}

	bookings, err := s.bookings.FindOverlapping(ctx, property.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get availability: %w", err)
	}

	return &response.AvailabilityResponse{
		PropertyID: property.ID.String(),
		From:       req.From,
		To:         req.To,
		Days:       buildCalendar(from, days, bookings),
	}, nil
}

func (s *bookingService) findProperty(ctx context.Context, propertyID string) (*entity.Property, error) {
	id, err := uuid.Parse(propertyID)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", propertyID, entity.ErrPropertyNotFound)
	}

	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup property %s: %w", id, err)
	}
	if property == nil {
		return nil, fmt.Errorf("property %s: %w", id, entity.ErrPropertyNotFound)
	}
	return property, nil
}

func (s *bookingService) publish(ctx context.Context, key string, b *entity.Booking) {
	if err := s.events.PublishJSON(ctx, key, newBookingEvent(b, s.clock.Now())); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("event", key),
			zap.String("booking_id", b.ID.String()),
		)
	}
}

// validateStay applies the pure request rules in their fixed order: date
// range and stay length, past check-in, capacity. The overlap rule runs in the store.
func validateStay(property *entity.Property, checkIn, checkOut time.Time, guestCount int, today time.Time) error {
	if !checkIn.Before(checkOut) {
		return entity.ErrInvalidDateRange
	}
	if nights := utils.DaysBetween(checkIn, checkOut); nights > maxStayNights {
		return fmt.Errorf("%w: stay of %d nights exceeds %d", entity.ErrValidation, nights, maxStayNights)
	}
	if checkIn.Before(today) {
		return entity.ErrPastDate
	}
	if guestCount < 1 {
		return fmt.Errorf("%w: guest count must be at least 1", entity.ErrValidation)
	}
	if guestCount > property.MaxGuests {
		return fmt.Errorf("%w: maximum %d guests allowed", entity.ErrCapacityExceeded, property.MaxGuests)
	}
	return nil
}

func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := utils.ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}
	out, err := utils.ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}
	return in, out, nil
}

func stayPrice(rate decimal.Decimal, nights int) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(int64(nights)))
}

// buildCalendar marks each of the days starting at from as occupied when an
// active booking covers that night.
func buildCalendar(from time.Time, days int, bookings []*entity.Booking) []response.AvailabilityDay {
	calendar := make([]response.AvailabilityDay, days)
	for i := range calendar {
		day := from.AddDate(0, 0, i)
		available := true
		for _, b := range bookings {
			if b.Overlaps(day, day.AddDate(0, 0, 1)) {
				available = false
				break
			}
		}
		calendar[i] = response.AvailabilityDay{Date: utils.FormatDate(day), Available: available}
	}
	return calendar
}
