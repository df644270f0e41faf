package middleware

import (
	"io"
	"net/http"
)

// maxDrainBytes bounds how much of an unread request body is discarded.
const maxDrainBytes = 256 << 10

// DrainAndCloseRequest discards what handlers left unread of the request
// body, so keep-alive connections can be reused.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.CopyN(io.Discard, r.Body, maxDrainBytes)
				_ = r.Body.Close()
			}
		})
	}
}
