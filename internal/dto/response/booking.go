package response

import (
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/pkg/utils"

	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID                 string               `json:"id"`
	PropertyID         string               `json:"property_id"`
	GuestID            string               `json:"guest_id"`
	CheckIn            string               `json:"check_in"`
	CheckOut           string               `json:"check_out"`
	Nights             int                  `json:"nights"`
	GuestCount         int                  `json:"guest_count"`
	NightlyRate        decimal.Decimal      `json:"nightly_rate"`
	TotalPrice         decimal.Decimal      `json:"total_price"`
	Status             entity.BookingStatus `json:"status"`
	SpecialRequests    *string              `json:"special_requests,omitempty"`
	CancellationReason *string              `json:"cancellation_reason,omitempty"`
	IsActive           bool                 `json:"is_active"`
	IsUpcoming         bool                 `json:"is_upcoming"`
	IsPast             bool                 `json:"is_past"`
	CreatedAt          time.Time            `json:"created_at"`
	ConfirmedAt        *time.Time           `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time           `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time           `json:"completed_at,omitempty"`
}

// StayResponse is the public view of an occupied range; it leaves out who
// is staying.
type StayResponse struct {
	BookingID string               `json:"booking_id"`
	CheckIn   string               `json:"check_in"`
	CheckOut  string               `json:"check_out"`
	Nights    int                  `json:"nights"`
	Status    entity.BookingStatus `json:"status"`
}

type QuoteResponse struct {
	PropertyID  string          `json:"property_id"`
	CheckIn     string          `json:"check_in"`
	CheckOut    string          `json:"check_out"`
	Nights      int             `json:"nights"`
	GuestCount  int             `json:"guest_count"`
	NightlyRate decimal.Decimal `json:"nightly_rate"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Available   bool            `json:"available"`
}

type AvailabilityDay struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

type AvailabilityResponse struct {
	PropertyID string            `json:"property_id"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	Days       []AvailabilityDay `json:"days"`
}

type StayedResponse struct {
	PropertyID string `json:"property_id"`
	HasStayed  bool   `json:"has_stayed"`
}

type ReconcileResponse struct {
	AsOf      string `json:"as_of"`
	Scanned   int    `json:"scanned"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
}

// BookingToResponse renders a booking; the is_* flags are evaluated against today.
func BookingToResponse(b *entity.Booking, today time.Time) BookingResponse {
	return BookingResponse{
		ID:                 b.ID.String(),
		PropertyID:         b.PropertyID.String(),
		GuestID:            b.GuestID.String(),
		CheckIn:            utils.FormatDate(b.CheckIn),
		CheckOut:           utils.FormatDate(b.CheckOut),
		Nights:             b.Nights(),
		GuestCount:         b.GuestCount,
		NightlyRate:        b.NightlyRate,
		TotalPrice:         b.TotalPrice,
		Status:             b.Status,
		SpecialRequests:    b.SpecialRequests,
		CancellationReason: b.CancellationReason,
		IsActive:           b.IsActiveOn(today),
		IsUpcoming:         b.IsUpcomingOn(today),
		IsPast:             b.IsPastOn(today),
		CreatedAt:          b.CreatedAt,
		ConfirmedAt:        b.ConfirmedAt,
		CancelledAt:        b.CancelledAt,
		CompletedAt:        b.CompletedAt,
	}
}

func BookingToStay(b *entity.Booking) StayResponse {
	return StayResponse{
		BookingID: b.ID.String(),
		CheckIn:   utils.FormatDate(b.CheckIn),
		CheckOut:  utils.FormatDate(b.CheckOut),
		Nights:    b.Nights(),
		Status:    b.Status,
	}
}
