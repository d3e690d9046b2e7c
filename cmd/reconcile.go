package cmd

import (
	"context"
	"time"

	"rental-booking/internal/usecase"
	"rental-booking/pkg/utils"

	"go.uber.org/zap"
)

// RunReconciler completes ended stays once at startup and then every
// interval until ctx is cancelled. A non-positive interval disables it.
func RunReconciler(ctx context.Context, svc usecase.ReconcileService, clock utils.Clock, interval time.Duration, log *zap.Logger) error {
	log = log.With(zap.String("worker", "reconciler"))
	if interval <= 0 {
		log.Info("Status reconciler disabled")
		return nil
	}

	log.Info("Status reconciler started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		runReconcile(ctx, svc, clock, log)

		select {
		case <-ctx.Done():
			log.Info("Status reconciler stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// ReconcileOnce runs a single pass for asOf, used by the reconcile command.
func ReconcileOnce(ctx context.Context, svc usecase.ReconcileService, asOf time.Time, log *zap.Logger) error {
	result, err := svc.ReconcileStatuses(ctx, asOf)
	if err != nil {
		return err
	}

	log.Info("Reconcile finished",
		zap.String("as_of", result.AsOf),
		zap.Int("scanned", result.Scanned),
		zap.Int("completed", result.Completed),
		zap.Int("failed", result.Failed),
	)
	return nil
}

func runReconcile(ctx context.Context, svc usecase.ReconcileService, clock utils.Clock, log *zap.Logger) {
	if ctx.Err() != nil {
		return
	}
	if _, err := svc.ReconcileStatuses(ctx, utils.Today(clock)); err != nil {
		log.Error("Reconcile pass failed", zap.Error(err))
	}
}
