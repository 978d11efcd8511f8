// internal/app/features/projects/routes.go
package projects

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
		rr.Get("/{projectID}", h.ServeGet)
		rr.Patch("/{projectID}", h.ServeUpdate)
		rr.Post("/{projectID}/members", h.ServeAddMember)
		rr.Delete("/{projectID}/members", h.ServeRemoveMember)
	})

	return r
}
