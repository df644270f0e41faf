package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/2beens/chizen/internal/telemetry/metrics"
	"github.com/2beens/chizen/pkg"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns a handler panic into a 500 {"detail": ...} response.
// http.ErrAbortHandler is re-panicked, net/http uses it to abort a response.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				log.WithFields(log.Fields{
					"method": req.Method,
					"path":   req.URL.Path,
				}).Errorf("panic serving request: %v\n%s", rec, debug.Stack())
				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				sentry.CurrentHub().Recover(rec)

				pkg.WriteErrorDetail(respWriter, http.StatusInternalServerError, "Internal server error")
			}()

			next.ServeHTTP(respWriter, req)
		})
	}
}
