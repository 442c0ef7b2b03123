package router

import (
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/otpkeeper/internal/pkg/stacktrace"
)

//nolint:contextcheck // ignore error
func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:err113,errorlint // this must compare directly
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			slog.ErrorContext(r.Context(), "panic on the server", "because", rvr, "stack", stacktrace.Internal(3))

			if r.Header.Get("Connection") == "Upgrade" {
				return
			}
			writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
