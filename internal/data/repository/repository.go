package repository

import (
	"rental-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Session  SessionRepository
	Property PropertyRepository
	Booking  BookingRepository
}

func NewRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Session:  NewSessionRepository(db, log),
		Property: NewPropertyRepository(db, log),
		Booking:  NewBookingRepository(db, log),
	}
}
