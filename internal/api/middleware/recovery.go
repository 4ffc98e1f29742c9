package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/hardercore-api/internal/api/apierr"
	"github.com/mcoot/hardercore-api/internal/middleware"
)

// Recovery answers a panicking handler with the standard INTERNAL_ERROR body
// and closes the connection.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, writePanicResponse)
}

func writePanicResponse(w http.ResponseWriter, _ *http.Request, _ any) {
	w.Header().Set("Connection", "close")
	apierr.WriteError(w, apierr.NewInternalError())
}
