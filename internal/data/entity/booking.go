package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	// BookingStatusPending is reserved; instant booking never produces it.
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// IsActive reports whether the status occupies the property's calendar.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusConfirmed || s == BookingStatusPending
}

// Booking is one reservation of a property. CheckIn and CheckOut are calendar
// dates stored as UTC midnight; the stay occupies [CheckIn, CheckOut).
type Booking struct {
	BaseNoDelete
	PropertyID         uuid.UUID       `db:"property_id"`
	GuestID            uuid.UUID       `db:"guest_id"`
	CheckIn            time.Time       `db:"check_in"`
	CheckOut           time.Time       `db:"check_out"`
	GuestCount         int             `db:"guest_count"`
	NightlyRate        decimal.Decimal `db:"nightly_rate"`
	TotalPrice         decimal.Decimal `db:"total_price"`
	Status             BookingStatus   `db:"status"`
	SpecialRequests    *string         `db:"special_requests"`
	ConfirmedAt        *time.Time      `db:"confirmed_at"`
	CancelledAt        *time.Time      `db:"cancelled_at"`
	CompletedAt        *time.Time      `db:"completed_at"`
	CancellationReason *string         `db:"cancellation_reason"`
}

// Nights is the length of the stay in whole days.
func (b *Booking) Nights() int {
	return int((b.CheckOut.Unix() - b.CheckIn.Unix()) / (24 * 60 * 60))
}

// Overlaps reports whether the half-open stays [CheckIn, CheckOut) intersect.
// Back-to-back stays (one checks out the day the other checks in) do not.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn)
}

// IsActiveOn reports a confirmed stay in progress on the given date.
func (b *Booking) IsActiveOn(today time.Time) bool {
	return b.Status == BookingStatusConfirmed && !b.CheckIn.After(today) && !today.After(b.CheckOut)
}

func (b *Booking) IsUpcomingOn(today time.Time) bool {
	return b.Status == BookingStatusConfirmed && b.CheckIn.After(today)
}

func (b *Booking) IsPastOn(today time.Time) bool {
	return b.CheckOut.Before(today)
}
