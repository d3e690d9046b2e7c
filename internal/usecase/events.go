package usecase

import (
	"context"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/pkg/utils"
)

// EventPublisher is satisfied by mq.Publisher and mq.NopPublisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// BookingEvent is the payload of every booking lifecycle message.
type BookingEvent struct {
	BookingID  string               `json:"booking_id"`
	PropertyID string               `json:"property_id"`
	GuestID    string               `json:"guest_id"`
	CheckIn    string               `json:"check_in"`
	CheckOut   string               `json:"check_out"`
	Status     entity.BookingStatus `json:"status"`
	TotalPrice string               `json:"total_price"`
	OccurredAt time.Time            `json:"occurred_at"`
}

func newBookingEvent(b *entity.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		BookingID:  b.ID.String(),
		PropertyID: b.PropertyID.String(),
		GuestID:    b.GuestID.String(),
		CheckIn:    utils.FormatDate(b.CheckIn),
		CheckOut:   utils.FormatDate(b.CheckOut),
		Status:     b.Status,
		TotalPrice: b.TotalPrice.String(),
		OccurredAt: at,
	}
}
