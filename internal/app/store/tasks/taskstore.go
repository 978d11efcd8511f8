package taskstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/orgpath"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

var (
	errBadStatus   = errors.New(`status must be "pending"|"in_progress"|"completed"|"cancelled"|"blocked"`)
	errBadPriority = fmt.Errorf("priority must be between %d and %d", models.PriorityMin, models.PriorityMax)
)

// Create inserts a new task after normalizing and validating fields.
// The department must already be resolved from the first assignee.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	t.ID = primitive.NewObjectID()
	t.TitleCI = text.Fold(t.Title)
	if t.Status == "" {
		t.Status = models.StatusPending
	}
	if !models.ValidTaskStatus(t.Status) {
		return models.Task{}, errBadStatus
	}
	if t.Priority < models.PriorityMin || t.Priority > models.PriorityMax {
		return models.Task{}, errBadPriority
	}

	now := time.Now().UTC()
	t.CreatedAt = now
	t.LastActivityAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// GetByID loads a task by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update holds the fields a task edit can change. Nil pointers leave
// the field untouched.
type Update struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *int
	Deadline    *time.Time
	AssignedTo  []primitive.ObjectID
	Department  *string // re-resolved when the assignees change
}

// Apply updates a task and advances last_activity_at.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"last_activity_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
		set["title_ci"] = text.Fold(*upd.Title)
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Status != nil {
		if !models.ValidTaskStatus(*upd.Status) {
			return errBadStatus
		}
		set["status"] = *upd.Status
	}
	if upd.Priority != nil {
		if *upd.Priority < models.PriorityMin || *upd.Priority > models.PriorityMax {
			return errBadPriority
		}
		set["priority"] = *upd.Priority
	}
	if upd.Deadline != nil {
		set["deadline"] = *upd.Deadline
	}
	if upd.AssignedTo != nil {
		set["assigned_to"] = upd.AssignedTo
	}
	if upd.Department != nil {
		set["department"] = *upd.Department
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Touch advances last_activity_at, used when a comment lands on the task.
func (s *Store) Touch(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_activity_at": time.Now().UTC()}})
	return err
}

// Delete removes a task by ID. Returns the number of documents deleted
// (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByProject returns a project's tasks in board order (status, then
// priority descending).
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "status", Value: 1}, {Key: "priority", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Task
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAssignedTo returns the tasks assigned to a user, most recently
// active first.
func (s *Store) ListAssignedTo(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_activity_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"assigned_to": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Task
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// subtreeClause matches tasks whose department is the given path or any
// descendant of it. Descendants are matched with an anchored prefix
// regex that includes the separator, so "Engineering" never matches
// "EngineeringTeam".
func subtreeClause(root orgpath.Path) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"department": root.String()},
		bson.M{"department": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(root.String()+orgpath.Sep)}},
	}}
}
