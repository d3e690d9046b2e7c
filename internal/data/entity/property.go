package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Property is the slice of a listing the booking ledger needs. It is owned by
// the listing service and never written from here.
type Property struct {
	ID            uuid.UUID       `db:"id"`
	PricePerNight decimal.Decimal `db:"price_per_night"`
	MaxGuests     int             `db:"max_guests"`
}
