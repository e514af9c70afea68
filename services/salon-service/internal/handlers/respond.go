package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/md-rashed-zaman/palor/libs/httpx"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/apperr"
)

// respondErr writes err as an error envelope. Unclassified errors are logged
// and hidden behind a generic message.
func respondErr(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if errors.Is(err, errBodyTooLarge) {
		httpx.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		logger.Error("request failed",
			"request_id", httpx.RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}
	httpx.RespondError(w, kind.HTTPStatus(), apperr.PublicMessage(err))
}
