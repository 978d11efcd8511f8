// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	commentstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/comments"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/store/oauthstate"
	projectstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/projects"
	taskstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/tasks"
	userstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureAll creates the indexes for every collection. It is called at
// startup; each store's EnsureIndexes is idempotent. Errors are
// aggregated so every problem is visible and startup can fail fast.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := userstore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := taskstore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "tasks: "+err.Error())
	}
	if err := projectstore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "projects: "+err.Error())
	}
	if err := commentstore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "comments: "+err.Error())
	}
	if err := oauthstate.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "oauth_states: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
