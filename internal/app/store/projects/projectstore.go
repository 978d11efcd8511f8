package projectstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/paging"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/status"
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
	return &Store{c: db.Collection("projects")}
}

var errEmptyName = errors.New("project name is required")

// Create inserts a new project. The creator is always a member.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	if p.Name == "" {
		return models.Project{}, errEmptyName
	}
	p.ID = primitive.NewObjectID()
	p.NameCI = text.Fold(p.Name)
	if p.Status == "" {
		p.Status = status.Active
	}
	if !containsID(p.MemberIDs, p.CreatedBy) {
		p.MemberIDs = append(p.MemberIDs, p.CreatedBy)
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// GetByID loads a project by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Page is one keyset-paginated slice of the project list.
type Page struct {
	Projects   []models.Project
	HasPrev    bool
	HasNext    bool
	PrevCursor string
	NextCursor string
}

// List returns one page of non-archived projects, sorted by folded
// name, using keyset pagination over (name_ci, _id).
func (s *Store) List(ctx context.Context, before, after string) (Page, error) {
	cfg := paging.ConfigureKeyset(before, after)

	filter := bson.M{"status": bson.M{"$ne": status.Archived}}
	if window := cfg.KeysetWindow("name_ci"); window != nil {
		filter = bson.M{"$and": bson.A{filter, window}}
	}

	opts := options.Find()
	cfg.ApplyToFind(opts, "name_ci")

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return Page{}, err
	}
	defer cur.Close(ctx)

	var rows []models.Project
	if err := cur.All(ctx, &rows); err != nil {
		return Page{}, err
	}

	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}
	res := paging.TrimPage(&rows, before, after)

	page := Page{Projects: rows, HasPrev: res.HasPrev, HasNext: res.HasNext}
	if res.HasPrev || res.HasNext {
		page.PrevCursor, page.NextCursor = paging.BuildCursors(rows,
			func(p models.Project) string { return p.NameCI },
			func(p models.Project) primitive.ObjectID { return p.ID })
	}
	return page, nil
}

// MemberProjects returns the IDs of the non-archived projects the user
// belongs to. Staff task visibility is built on this list.
func (s *Store) MemberProjects(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	proj := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, bson.M{
		"member_ids": userID,
		"status":     bson.M{"$ne": status.Archived},
	}, proj)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, row.ID)
	}
	return out, cur.Err()
}

// ProjectUpdate holds the fields a project edit can change.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Status      *string
}

// Apply updates a project's editable fields.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, upd ProjectUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		if *upd.Name == "" {
			return errEmptyName
		}
		set["name"] = *upd.Name
		set["name_ci"] = text.Fold(*upd.Name)
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
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

// AddMember adds a user to the project's membership list, idempotently.
func (s *Store) AddMember(ctx context.Context, projectID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{
		"$addToSet": bson.M{"member_ids": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RemoveMember removes a user from the project's membership list.
func (s *Store) RemoveMember(ctx context.Context, projectID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{
		"$pull": bson.M{"member_ids": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// EnsureIndexes creates the membership lookup index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "member_ids", Value: 1}},
			Options: options.Index().SetName("idx_projects_members"),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_projects_name"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

func containsID(list []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
