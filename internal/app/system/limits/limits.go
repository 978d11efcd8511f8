// internal/app/system/limits/limits.go
package limits

import "net/http"

// Request body size limits. These prevent memory exhaustion from
// oversized requests.
const (
	// MaxJSONBody is the maximum size for JSON request bodies. Task and
	// project payloads are small; anything near this limit is abuse.
	MaxJSONBody = 1 << 20 // 1 MB
)

// BodyLimit is middleware that caps request body reads at MaxJSONBody.
// Handlers decoding a larger body get an error from Read, which they
// report as a bad request.
func BodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBody)
		}
		next.ServeHTTP(w, r)
	})
}
