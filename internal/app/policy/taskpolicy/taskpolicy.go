// Package taskpolicy decides which tasks a caller may see on the board.
//
// Visibility rules:
//   - Admins see every task
//   - HR users see tasks whose department falls in their home subtree
//   - Managers see their own tasks plus tasks assigned to same-division
//     users with a strictly more junior rank
//   - Staff see their own tasks plus tasks on projects they belong to
package taskpolicy

import (
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/policy/reportpolicy"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/authz"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/orgpath"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskScope is a caller's task-level visibility. A task is visible when
// ANY of the populated dimensions matches it.
type TaskScope struct {
	All         bool
	Roots       []orgpath.Path       // department subtrees (hr)
	AssigneeIDs []primitive.ObjectID // self + subordinates (manager, staff self)
	ProjectIDs  []primitive.ObjectID // project membership (staff)
}

// ForCaller computes the caller's task scope. divisionRanks carries
// user→rank rows for the caller's division (managers); memberProjects
// carries the projects the caller belongs to (staff). Either may be nil
// when not applicable.
func ForCaller(c authz.Caller, divisionRanks map[primitive.ObjectID]models.OrgRank, memberProjects []primitive.ObjectID) TaskScope {
	switch c.Role {
	case models.RoleAdmin:
		return TaskScope{All: true}

	case models.RoleHR:
		if !c.HasDepartment() {
			return TaskScope{AssigneeIDs: []primitive.ObjectID{c.ID}}
		}
		return TaskScope{Roots: []orgpath.Path{c.Department}}

	case models.RoleManager:
		return TaskScope{AssigneeIDs: reportpolicy.ManagerAssignees(c, divisionRanks)}

	default: // staff
		return TaskScope{
			AssigneeIDs: []primitive.ObjectID{c.ID},
			ProjectIDs:  memberProjects,
		}
	}
}

// CanSee reports whether the scope covers the given task.
func (s TaskScope) CanSee(t models.Task) bool {
	if s.All {
		return true
	}
	if t.Department != "" {
		if p, err := orgpath.Parse(t.Department); err == nil && orgpath.InAnySubtree(s.Roots, p) {
			return true
		}
	}
	for _, id := range s.AssigneeIDs {
		for _, a := range t.AssignedTo {
			if id == a {
				return true
			}
		}
	}
	for _, pid := range s.ProjectIDs {
		if pid == t.ProjectID {
			return true
		}
	}
	return false
}
