package userstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/normalize"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/orgpath"
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
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "staff"|"manager"|"hr"|"admin"`)
	errBadStatus      = errors.New(`status must be "active"|"disabled"`)
	errBadDepartment  = errors.New("department must be a valid dot-separated path")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields.
// The password, if any, must already be hashed.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	if u.Status == "" {
		u.Status = status.Active
	}

	if !models.ValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if !status.IsValid(u.Status) {
		return models.User{}, errBadStatus
	}
	if u.Department != "" {
		if _, err := orgpath.Parse(u.Department); err != nil {
			return models.User{}, errBadDepartment
		}
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// DivisionRanks returns the user→rank rows for one division, used to
// resolve a manager's reporting scope. Disabled users are excluded so
// their tasks stop appearing in manager views.
func (s *Store) DivisionRanks(ctx context.Context, division string) (map[primitive.ObjectID]models.OrgRank, error) {
	proj := options.Find().SetProjection(bson.M{"_id": 1, "rank": 1})
	cur, err := s.c.Find(ctx, bson.M{
		"division": division,
		"status":   bson.M{"$ne": status.Disabled},
	}, proj)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[primitive.ObjectID]models.OrgRank)
	for cur.Next(ctx) {
		var row struct {
			ID   primitive.ObjectID `bson:"_id"`
			Rank models.OrgRank     `bson:"rank"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.Rank
	}
	return out, cur.Err()
}

// ListByDepartmentSubtree returns the active users whose home department
// is the given path or a descendant of it, sorted by folded name.
func (s *Store) ListByDepartmentSubtree(ctx context.Context, root orgpath.Path) ([]models.User, error) {
	filter := bson.M{
		"status": bson.M{"$ne": status.Disabled},
		"$or": bson.A{
			bson.M{"department": root.String()},
			bson.M{"department": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(root.String()+orgpath.Sep)}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus flips a user between active and disabled.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	if !status.IsValid(st) {
		return errBadStatus
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": st, "updated_at": time.Now().UTC()}})
	return err
}

// EnsureIndexes creates the unique email index and the lookup indexes
// used by scoping queries.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_users_email"),
		},
		{
			Keys:    bson.D{{Key: "department", Value: 1}},
			Options: options.Index().SetName("idx_users_department"),
		},
		{
			Keys:    bson.D{{Key: "division", Value: 1}, {Key: "rank", Value: 1}},
			Options: options.Index().SetName("idx_users_division_rank"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
