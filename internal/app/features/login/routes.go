// internal/app/features/login/routes.go
package login

import (
	"time"

	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Brute-force protection on the credential check.
	limiter := ratelimit.New(10, time.Minute)
	r.With(limiter.ByIP).Post("/", h.HandleLogin)

	return r
}
