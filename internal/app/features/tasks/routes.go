// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(rr chi.Router) {
		rr.Use(sm.RequireSignedIn)
		rr.Get("/", h.ServeList)
		rr.Post("/", h.ServeCreate)
		rr.Get("/{taskID}", h.ServeGet)
		rr.Patch("/{taskID}", h.ServeUpdate)
		rr.Delete("/{taskID}", h.ServeDelete)
		rr.Get("/{taskID}/comments", h.ServeComments)
		rr.Post("/{taskID}/comments", h.ServeAddComment)
	})

	return r
}
