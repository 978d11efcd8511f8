// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project groups tasks and carries its own membership list. Staff task
// visibility extends to every task on a project the staff member belongs
// to, so MemberIDs doubles as an access list.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	NameCI      string               `bson:"name_ci" json:"-"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Status      string               `bson:"status,omitempty" json:"status,omitempty"` // active | archived
	MemberIDs   []primitive.ObjectID `bson:"member_ids,omitempty" json:"member_ids,omitempty"`
	CreatedBy   primitive.ObjectID   `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
