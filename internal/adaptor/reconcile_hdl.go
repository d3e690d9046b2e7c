package adaptor

import (
	"net/http"

	"rental-booking/internal/usecase"
	"rental-booking/pkg/utils"

	"go.uber.org/zap"
)

type ReconcileHandler struct {
	service usecase.ReconcileService
	clock   utils.Clock
	log     *zap.Logger
}

func NewReconcileHandler(service usecase.ReconcileService, clock utils.Clock, log *zap.Logger) *ReconcileHandler {
	return &ReconcileHandler{
		service: service,
		clock:   clock,
		log:     log.With(zap.String("handler", "reconcile")),
	}
}

// Reconcile handles POST /api/admin/bookings/reconcile?as_of=YYYY-MM-DD (admin only)
func (h *ReconcileHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	asOf := utils.Today(h.clock)
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "as_of must be a date in YYYY-MM-DD format", nil)
			return
		}
		asOf = parsed
	}

	result, err := h.service.ReconcileStatuses(r.Context(), asOf)
	if err != nil {
		handleServiceError(h.log, w, err, "reconcile booking statuses")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}
