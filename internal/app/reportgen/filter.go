// internal/app/reportgen/filter.go
package reportgen

import (
	"time"

	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/orgpath"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interval selects the time-series bucket size.
type Interval string

const (
	IntervalNone  Interval = ""
	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"
)

// dateLayout is the only accepted calendar date format.
const dateLayout = "2006-01-02"

// RawFilter is the inbound report request body, exactly as the SPA
// sends it. All fields are optional; list fields must be non-empty when
// present.
type RawFilter struct {
	Departments []string `json:"departments,omitempty"`
	Projects    []string `json:"projects,omitempty"`
	Statuses    []string `json:"statuses,omitempty"`
	Priorities  []int    `json:"priorities,omitempty"`
	Users       []string `json:"users,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Interval    string   `json:"interval,omitempty"`
}

// Filter is the validated, normalized form of a RawFilter. Start and
// End are UTC midnights; the date range is inclusive on both ends.
type Filter struct {
	Departments []orgpath.Path
	ProjectIDs  []primitive.ObjectID
	Statuses    []models.TaskStatus
	Priorities  []int
	UserIDs     []primitive.ObjectID
	Start       *time.Time
	End         *time.Time
	Interval    Interval
}

// ValidateFilter checks a raw filter rule by rule; the first violation
// wins and each violation carries its own user-facing message.
func ValidateFilter(raw RawFilter) (Filter, error) {
	var f Filter

	if raw.StartDate != "" {
		t, err := time.ParseInLocation(dateLayout, raw.StartDate, time.UTC)
		if err != nil {
			return Filter{}, invalid("start_date", "start_date %q must be a date in YYYY-MM-DD format", raw.StartDate)
		}
		f.Start = &t
	}
	if raw.EndDate != "" {
		t, err := time.ParseInLocation(dateLayout, raw.EndDate, time.UTC)
		if err != nil {
			return Filter{}, invalid("end_date", "end_date %q must be a date in YYYY-MM-DD format", raw.EndDate)
		}
		f.End = &t
	}
	if f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		return Filter{}, invalid("end_date", "end_date must be on or after start_date")
	}

	switch Interval(raw.Interval) {
	case IntervalNone, IntervalWeek, IntervalMonth:
		f.Interval = Interval(raw.Interval)
	default:
		return Filter{}, invalid("interval", "interval %q is not supported; use \"week\" or \"month\"", raw.Interval)
	}
	if f.Interval != IntervalNone && (f.Start == nil || f.End == nil) {
		return Filter{}, invalid("interval", "interval requires both start_date and end_date")
	}

	if raw.Departments != nil {
		if len(raw.Departments) == 0 {
			return Filter{}, invalid("departments", "departments must be a non-empty list when present")
		}
		paths, err := orgpath.ParseAll(raw.Departments)
		if err != nil {
			return Filter{}, invalid("departments", "invalid department: %v", err)
		}
		f.Departments = paths
	}

	if raw.Projects != nil {
		if len(raw.Projects) == 0 {
			return Filter{}, invalid("projects", "projects must be a non-empty list when present")
		}
		ids, bad := parseObjectIDs(raw.Projects)
		if bad != "" {
			return Filter{}, invalid("projects", "invalid project id %q", bad)
		}
		f.ProjectIDs = ids
	}

	if raw.Statuses != nil {
		if len(raw.Statuses) == 0 {
			return Filter{}, invalid("statuses", "statuses must be a non-empty list when present")
		}
		for _, s := range raw.Statuses {
			st := models.TaskStatus(s)
			if !models.ValidTaskStatus(st) {
				return Filter{}, invalid("statuses", "unknown task status %q", s)
			}
			f.Statuses = append(f.Statuses, st)
		}
	}

	if raw.Priorities != nil {
		if len(raw.Priorities) == 0 {
			return Filter{}, invalid("priorities", "priorities must be a non-empty list when present")
		}
		for _, p := range raw.Priorities {
			if p < models.PriorityMin || p > models.PriorityMax {
				return Filter{}, invalid("priorities", "priority %d is out of range (%d-%d)", p, models.PriorityMin, models.PriorityMax)
			}
			f.Priorities = append(f.Priorities, p)
		}
	}

	if raw.Users != nil {
		if len(raw.Users) == 0 {
			return Filter{}, invalid("users", "users must be a non-empty list when present")
		}
		ids, bad := parseObjectIDs(raw.Users)
		if bad != "" {
			return Filter{}, invalid("users", "invalid user id %q", bad)
		}
		f.UserIDs = ids
	}

	return f, nil
}

func parseObjectIDs(hexes []string) ([]primitive.ObjectID, string) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, h
		}
		ids = append(ids, id)
	}
	return ids, ""
}
