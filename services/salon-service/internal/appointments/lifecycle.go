package appointments

import (
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/apperr"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
)

// transitions is the full set of legal status edges. Completed and cancelled
// are terminal.
var transitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusCompleted, model.StatusCancelled},
}

func CanTransition(from, to model.AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to model.AppointmentStatus) error {
	if !to.Valid() {
		return apperr.Validation("unknown status %q", to)
	}
	if !CanTransition(from, to) {
		return apperr.Conflict("invalid status transition from %s to %s", from, to)
	}
	return nil
}
