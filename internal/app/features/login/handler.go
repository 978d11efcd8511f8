// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"net/http"

	userstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/users"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/auth"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/normalize"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/status"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		Log:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// HandleLogin handles POST /login. Credential failures all return the
// same 401 body so the response does not reveal which part was wrong.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = normalize.Email(req.Email)
	if req.Email == "" || req.Password == "" {
		auth.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			h.Log.Error("login: user lookup failed", zap.Error(err))
		}
		auth.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if normalize.Status(u.Status) == status.Disabled || u.HashedPassword == "" {
		auth.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(req.Password)) != nil {
		auth.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("login: session save failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not establish session")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{
		ID:         u.ID.Hex(),
		Name:       u.FullName,
		Email:      u.Email,
		Role:       string(u.Role),
		Department: u.Department,
	})
}
