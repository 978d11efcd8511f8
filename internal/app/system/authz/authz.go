// internal/app/system/authz/authz.go

// Package authz turns the session user into a typed Caller value that
// the policy packages evaluate. Handlers extract the Caller once and
// pass it by value into report generation, so authorization decisions
// are never re-derived inside aggregation code.
package authz

import (
	"net/http"
	"strings"

	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/auth"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/orgpath"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Caller is the request principal: who is asking, with which role, and
// where they sit in the organizational hierarchy.
type Caller struct {
	ID         primitive.ObjectID
	Name       string
	Role       models.Role
	Department orgpath.Path // zero when the user has no home department
	Division   string
	Rank       models.OrgRank
}

// HasDepartment reports whether the caller has a home department.
func (c Caller) HasDepartment() bool { return c.Department != "" }

// CallerCtx builds the Caller from the session user in the request
// context. ok is false when nobody is signed in or the session carries a
// malformed user ID or department path; both fail closed.
func CallerCtx(r *http.Request) (Caller, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return Caller{}, false
	}

	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		// Malformed user ID in session; should not happen in normal
		// operation.
		return Caller{}, false
	}

	c := Caller{
		ID:       id,
		Name:     u.Name,
		Role:     models.Role(strings.ToLower(strings.TrimSpace(u.Role))),
		Division: u.Division,
		Rank:     models.OrgRank(u.Rank),
	}
	if u.Department != "" {
		p, err := orgpath.Parse(u.Department)
		if err != nil {
			return Caller{}, false
		}
		c.Department = p
	}
	return c, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	c, ok := CallerCtx(r)
	return ok && c.Role == models.RoleAdmin
}

// IsHR reports whether the current request's user is an hr user.
func IsHR(r *http.Request) bool {
	c, ok := CallerCtx(r)
	return ok && c.Role == models.RoleHR
}

// IsManager reports whether the current request's user is a manager.
func IsManager(r *http.Request) bool {
	c, ok := CallerCtx(r)
	return ok && c.Role == models.RoleManager
}

// IsStaff reports whether the current request's user is staff.
func IsStaff(r *http.Request) bool {
	c, ok := CallerCtx(r)
	return ok && c.Role == models.RoleStaff
}
