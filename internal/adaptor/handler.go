package adaptor

import (
	"rental-booking/internal/usecase"
	"rental-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking   *BookingHandler
	Reconcile *ReconcileHandler
}

func NewHandler(service *usecase.Service, clock utils.Clock, log *zap.Logger) *Handler {
	return &Handler{
		Booking:   NewBookingHandler(service.Booking, log),
		Reconcile: NewReconcileHandler(service.Reconcile, clock, log),
	}
}
