package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/status"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given role and department and
// returns it with its generated ID.
func (f *Fixtures) CreateUser(ctx context.Context, name string, role models.Role, department string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   name,
		FullNameCI: text.Fold(name),
		Email:      text.Fold(name) + "@test.com",
		Role:       role,
		Status:     status.Active,
		Department: department,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("create user fixture: %v", err)
	}
	return u
}

// CreateRankedUser inserts a user with a division and rank, for manager
// scoping tests.
func (f *Fixtures) CreateRankedUser(ctx context.Context, name string, role models.Role, division string, rank models.OrgRank) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, name, role, "")
	_, err := f.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": u.ID},
		bson.M{"$set": bson.M{"division": division, "rank": rank}})
	if err != nil {
		f.t.Fatalf("set division/rank: %v", err)
	}
	u.Division = division
	u.Rank = rank
	return u
}

// CreateTask inserts a task in the given department and returns it with
// its generated ID.
func (f *Fixtures) CreateTask(ctx context.Context, title, department string, st models.TaskStatus, priority int, assignees ...primitive.ObjectID) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:             primitive.NewObjectID(),
		Title:          title,
		TitleCI:        text.Fold(title),
		Status:         st,
		Priority:       priority,
		AssignedTo:     assignees,
		Department:     department,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("create task fixture: %v", err)
	}
	return task
}

// CreateProject inserts a project with the given members and returns it
// with its generated ID.
func (f *Fixtures) CreateProject(ctx context.Context, name string, members ...primitive.ObjectID) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    status.Active,
		MemberIDs: members,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(members) > 0 {
		p.CreatedBy = members[0]
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("create project fixture: %v", err)
	}
	return p
}
