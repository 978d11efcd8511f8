// Package reportpolicy decides what scope of data a caller can access
// in reports.
//
// Authorization rules:
//   - Admins can request reports over any department, project, or user
//   - HR users can request only their home department subtree; asking for
//     anything outside it is rejected, not silently narrowed
//   - Managers can run the user-productivity report over themselves and
//     same-division users with a strictly more junior rank
//   - Staff cannot generate reports
package reportpolicy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/authz"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/orgpath"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrUnauthenticated signals a missing caller identity (HTTP 401).
var ErrUnauthenticated = errors.New("authentication required")

// ForbiddenError signals an authenticated caller whose role or
// department authority denies the request (HTTP 403). Reason is
// user-facing; DeniedDepartments names the paths that were refused, so
// the caller is told exactly what was out of bounds.
type ForbiddenError struct {
	Reason            string
	DeniedDepartments []string
}

func (e *ForbiddenError) Error() string { return e.Reason }

// AccessScope is the caller's resolved authority, computed once and
// passed by value into the aggregation engine.
//
// All=true means no department restriction (admin with no filter).
// Otherwise Roots lists subtree roots the caller may see; a task is in
// scope when its department is a descendant-or-self of any root. Empty
// Roots with All=false means the caller's own authority is empty: a
// structurally valid, empty report.
//
// AssigneeIDs, when non-nil, additionally restricts matching to tasks
// assigned to one of the listed users (manager visibility).
type AccessScope struct {
	All         bool
	Roots       []orgpath.Path
	AssigneeIDs []primitive.ObjectID
}

// Visible reports whether the scope can contain any data at all.
func (s AccessScope) Visible() bool { return s.All || len(s.Roots) > 0 || s.AssigneeIDs != nil }

// Authorize gates an operation on the caller's role. ok=false (no
// session user) yields ErrUnauthenticated; a caller whose role is not in
// allowed yields a ForbiddenError.
func Authorize(c authz.Caller, ok bool, allowed ...models.Role) error {
	if !ok {
		return ErrUnauthenticated
	}
	for _, role := range allowed {
		if c.Role == role {
			return nil
		}
	}
	names := make([]string, len(allowed))
	for i, role := range allowed {
		names[i] = string(role)
	}
	return &ForbiddenError{
		Reason: fmt.Sprintf("role %q may not generate this report (requires %s)",
			c.Role, strings.Join(names, " or ")),
	}
}

// ScopeDepartments intersects the requested department paths with the
// caller's departmental authority.
//
// Admin: the request passes through unchanged; no request means no
// restriction. HR: every requested path must fall inside the caller's
// home subtree — any path outside it rejects the whole request with a
// ForbiddenError naming the denied paths. An HR caller with no home
// department gets an empty (but valid) scope. Other roles have no
// departmental authority.
func ScopeDepartments(c authz.Caller, requested []orgpath.Path) (AccessScope, error) {
	switch c.Role {
	case models.RoleAdmin:
		if len(requested) == 0 {
			return AccessScope{All: true}, nil
		}
		return AccessScope{Roots: requested}, nil

	case models.RoleHR:
		if !c.HasDepartment() {
			return AccessScope{}, nil
		}
		if len(requested) == 0 {
			return AccessScope{Roots: []orgpath.Path{c.Department}}, nil
		}
		allowed := orgpath.FilterToSubtree(c.Department, requested)
		if len(allowed) < len(requested) {
			denied := make([]string, 0, len(requested)-len(allowed))
			for _, p := range requested {
				if !orgpath.IsDescendantOrSelf(c.Department, p) {
					denied = append(denied, p.String())
				}
			}
			return AccessScope{}, &ForbiddenError{
				Reason: fmt.Sprintf("departments outside your authority: %s",
					strings.Join(denied, ", ")),
				DeniedDepartments: denied,
			}
		}
		return AccessScope{Roots: allowed}, nil

	default:
		return AccessScope{}, &ForbiddenError{
			Reason: fmt.Sprintf("role %q has no departmental reporting authority", c.Role),
		}
	}
}

// ManagerAssignees resolves the set of users whose tasks a manager may
// see: the manager plus every same-division user whose rank is strictly
// more junior (lower value) than the manager's own. divisionRanks maps
// user IDs to ranks for the manager's division; with no directory rows
// the manager degenerates to assigned-to-self only. The result is
// sorted for deterministic queries.
func ManagerAssignees(c authz.Caller, divisionRanks map[primitive.ObjectID]models.OrgRank) []primitive.ObjectID {
	ids := []primitive.ObjectID{c.ID}
	for id, rank := range divisionRanks {
		if id == c.ID {
			continue
		}
		if rank < c.Rank {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })
	return ids
}
