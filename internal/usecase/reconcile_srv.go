package usecase

import (
	"context"
	"fmt"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/dto/response"
	"rental-booking/pkg/mq"
	"rental-booking/pkg/utils"

	"go.uber.org/zap"
)

type ReconcileService interface {
	// ReconcileStatuses completes every confirmed booking whose check-out is
	// before asOf. Running it again for the same date changes nothing.
	ReconcileStatuses(ctx context.Context, asOf time.Time) (*response.ReconcileResponse, error)
}

type reconcileService struct {
	bookings repository.BookingRepository
	events   EventPublisher
	clock    utils.Clock
	log      *zap.Logger
}

func NewReconcileService(repo *repository.Repository, events EventPublisher, clock utils.Clock, log *zap.Logger) ReconcileService {
	return &reconcileService{
		bookings: repo.Booking,
		events:   events,
		clock:    clock,
		log:      log.With(zap.String("service", "reconcile")),
	}
}

func (s *reconcileService) ReconcileStatuses(ctx context.Context, asOf time.Time) (*response.ReconcileResponse, error) {
	asOf = utils.DateOf(asOf)
	result := &response.ReconcileResponse{AsOf: utils.FormatDate(asOf)}

	ended, err := s.bookings.FindConfirmedEndedBefore(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("reconcile statuses: %w", err)
	}
	result.Scanned = len(ended)

	for _, b := range ended {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("reconcile statuses interrupted after %d bookings: %w", result.Completed+result.Failed, err)
		}

		now := s.clock.Now()
		updated, err := s.bookings.MarkCompleted(ctx, b.ID, now)
		if err != nil {
			// One bad row must not hold up the rest of the batch.
			result.Failed++
			s.log.Error("Failed to complete booking",
				zap.Error(err),
				zap.String("booking_id", b.ID.String()),
			)
			continue
		}
		if !updated {
			// Cancelled or completed by someone else since the scan.
			continue
		}

		result.Completed++
		b.Status = entity.BookingStatusCompleted
		b.CompletedAt = &now

		if err := s.events.PublishJSON(ctx, mq.KeyBookingCompleted, newBookingEvent(b, now)); err != nil {
			s.log.Warn("Failed to publish booking event",
				zap.Error(err),
				zap.String("event", mq.KeyBookingCompleted),
				zap.String("booking_id", b.ID.String()),
			)
		}
	}

	s.log.Info("Booking statuses reconciled",
		zap.String("as_of", result.AsOf),
		zap.Int("scanned", result.Scanned),
		zap.Int("completed", result.Completed),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}
