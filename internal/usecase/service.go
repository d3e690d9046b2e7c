package usecase

import (
	"rental-booking/internal/data/repository"
	"rental-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking   BookingService
	Reconcile ReconcileService
}

func NewService(repo *repository.Repository, events EventPublisher, clock utils.Clock, log *zap.Logger) *Service {
	return &Service{
		Booking:   NewBookingService(repo, events, clock, log),
		Reconcile: NewReconcileService(repo, events, clock, log),
	}
}
