package adaptor

import (
	"errors"
	"net/http"

	"rental-booking/internal/data/entity"
	"rental-booking/pkg/database"
	"rental-booking/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps ledger errors to HTTP responses. Anything it does
// not recognise is logged and hidden behind a 500.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, entity.ErrPropertyNotFound), errors.Is(err, entity.ErrBookingNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, entity.ErrValidation),
		errors.Is(err, entity.ErrInvalidDateRange),
		errors.Is(err, entity.ErrPastDate),
		errors.Is(err, entity.ErrCapacityExceeded):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, entity.ErrNotOwner), errors.Is(err, entity.ErrGuestRoleRequired):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, entity.ErrDateConflict),
		errors.Is(err, entity.ErrNotCancellable),
		errors.Is(err, entity.ErrAlreadyStarted):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case database.IsRetryable(err):
		log.Warn(operation+" failed - transaction aborted", zap.Error(err))
		utils.ResponseRetry(w, "Please retry the request")

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
