package taskstore

import (
	"context"

	"github.com/fcyap/IS212-G3T5-sub004/internal/app/policy/taskpolicy"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/reportgen"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QueryTasks fetches the tasks matching a report query. The mongo
// filter mirrors reportgen.TaskQuery.Matches: scope dimensions are
// intersected with the caller's filter, and the date range matches the
// task's activity window. Results are sorted by _id so repeated queries
// aggregate identically.
func (s *Store) QueryTasks(ctx context.Context, q reportgen.TaskQuery) ([]models.Task, error) {
	var and bson.A

	if !q.Scope.All {
		if len(q.Scope.Roots) > 0 {
			or := make(bson.A, 0, len(q.Scope.Roots))
			for _, root := range q.Scope.Roots {
				or = append(or, subtreeClause(root))
			}
			and = append(and, bson.M{"$or": or})
		} else if q.Scope.AssigneeIDs == nil {
			// Empty authority: nothing matches. The report engine
			// normally short-circuits before reaching the store.
			return nil, nil
		}
	}
	if q.Scope.AssigneeIDs != nil {
		and = append(and, bson.M{"assigned_to": bson.M{"$in": q.Scope.AssigneeIDs}})
	}

	if len(q.Statuses) > 0 {
		and = append(and, bson.M{"status": bson.M{"$in": q.Statuses}})
	}
	if len(q.Priorities) > 0 {
		and = append(and, bson.M{"priority": bson.M{"$in": q.Priorities}})
	}
	if len(q.ProjectIDs) > 0 {
		and = append(and, bson.M{"project_id": bson.M{"$in": q.ProjectIDs}})
	}
	if len(q.UserIDs) > 0 {
		and = append(and, bson.M{"assigned_to": bson.M{"$in": q.UserIDs}})
	}

	if q.Start != nil {
		// Last activity on or after the start date; legacy records
		// without the field fall back to creation time.
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"last_activity_at": bson.M{"$gte": *q.Start}},
			bson.M{"last_activity_at": bson.M{"$exists": false}, "created_at": bson.M{"$gte": *q.Start}},
		}})
	}
	if q.End != nil {
		and = append(and, bson.M{"created_at": bson.M{"$lt": q.End.AddDate(0, 0, 1)}})
	}

	filter := bson.M{}
	if len(and) > 0 {
		filter["$and"] = and
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
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

// ListForScope returns the tasks a caller may see on the board: the
// union of the scope's dimensions, most recently active first.
func (s *Store) ListForScope(ctx context.Context, scope taskpolicy.TaskScope) ([]models.Task, error) {
	var filter bson.M
	if scope.All {
		filter = bson.M{}
	} else {
		var or bson.A
		for _, root := range scope.Roots {
			or = append(or, subtreeClause(root))
		}
		if len(scope.AssigneeIDs) > 0 {
			or = append(or, bson.M{"assigned_to": bson.M{"$in": scope.AssigneeIDs}})
		}
		if len(scope.ProjectIDs) > 0 {
			or = append(or, bson.M{"project_id": bson.M{"$in": scope.ProjectIDs}})
		}
		if len(or) == 0 {
			return nil, nil
		}
		filter = bson.M{"$or": or}
	}

	opts := options.Find().SetSort(bson.D{{Key: "last_activity_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
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

// EnsureIndexes creates the indexes report queries and board listings
// lean on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "department", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_tasks_department_status"),
		},
		{
			Keys:    bson.D{{Key: "assigned_to", Value: 1}},
			Options: options.Index().SetName("idx_tasks_assigned_to"),
		},
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_tasks_project"),
		},
		{
			Keys:    bson.D{{Key: "last_activity_at", Value: -1}},
			Options: options.Index().SetName("idx_tasks_activity"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
