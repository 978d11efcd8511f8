// internal/app/features/reports/routes.go
package reports

import (
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(rr chi.Router) {
		rr.Use(sm.RequireSignedIn)
		// Role gating is enforced inside the report engine.
		rr.Post("/departments", h.ServeDepartments)
		rr.Post("/tasks", h.ServeTasks)
		rr.Post("/users", h.ServeUsers)
		rr.Post("/projects", h.ServeProjects)
	})

	return r
}
