package middleware

import (
	"net/http"

	"github.com/studyhub-ai/studyhub/internal/api"
)

// MaxBodyBytes caps request body size at limit bytes. Requests that
// declare a larger Content-Length are rejected up front; chunked bodies
// are cut off by MaxBytesReader once they exceed the limit.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
