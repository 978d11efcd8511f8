// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a user's application role.
type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleHR      Role = "hr"
	RoleAdmin   Role = "admin"
)

// ValidRole reports whether r is one of the four known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleStaff, RoleManager, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// OrgRank is a user's position in the organizational hierarchy.
//
// Ordering convention (pinned by TestManagerScope_RankDirection): a LOWER
// value means a MORE JUNIOR standing. A manager with rank 5 supervises
// same-division users with rank < 5. New hires start at rank 1.
type OrgRank int

// User represents staff, managers, hr users, and admins.
//
// Department is a dot-separated organizational path (e.g.
// "Engineering.Backend"); use the orgpath package to compare paths rather
// than raw string prefixes. Tasks inherit their department from an
// assignee's home department at write time.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName       string             `bson:"full_name" json:"full_name"`
	FullNameCI     string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email          string             `bson:"email" json:"email"`
	HashedPassword string             `bson:"hashed_password,omitempty" json:"-"`
	AuthMethod     string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // password | google
	Role           Role               `bson:"role" json:"role"`
	Status         string             `bson:"status,omitempty" json:"status,omitempty"` // active | disabled
	Department     string             `bson:"department,omitempty" json:"department,omitempty"`
	Division       string             `bson:"division,omitempty" json:"division,omitempty"`
	Rank           OrgRank            `bson:"rank,omitempty" json:"rank,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
