// internal/app/reportgen/filter_test.go
package reportgen

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateFilter_FullFilter(t *testing.T) {
	raw := RawFilter{
		Departments: []string{"Engineering.Backend", "Sales"},
		Projects:    []string{"64a000000000000000000010"},
		Statuses:    []string{"completed", "in_progress"},
		Priorities:  []int{1, 7},
		Users:       []string{"64a000000000000000000001"},
		StartDate:   "2025-10-01",
		EndDate:     "2025-10-31",
		Interval:    "week",
	}

	f, err := ValidateFilter(raw)
	if err != nil {
		t.Fatalf("ValidateFilter: %v", err)
	}
	if len(f.Departments) != 2 || f.Departments[0].String() != "Engineering.Backend" {
		t.Errorf("departments = %v", f.Departments)
	}
	if len(f.ProjectIDs) != 1 || len(f.UserIDs) != 1 {
		t.Errorf("ids not parsed: projects=%v users=%v", f.ProjectIDs, f.UserIDs)
	}
	if f.Interval != IntervalWeek {
		t.Errorf("interval = %q", f.Interval)
	}
	wantStart := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	if f.Start == nil || !f.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", f.Start, wantStart)
	}
}

func TestValidateFilter_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		raw   RawFilter
		field string
	}{
		{"bad start date", RawFilter{StartDate: "10/01/2025"}, "start_date"},
		{"bad end date", RawFilter{EndDate: "2025-13-40"}, "end_date"},
		{"end before start", RawFilter{StartDate: "2025-10-31", EndDate: "2025-10-01"}, "end_date"},
		{"unknown interval", RawFilter{StartDate: "2025-10-01", EndDate: "2025-10-31", Interval: "daily"}, "interval"},
		{"interval without range", RawFilter{Interval: "week"}, "interval"},
		{"interval missing end", RawFilter{StartDate: "2025-10-01", Interval: "month"}, "interval"},
		{"empty departments", RawFilter{Departments: []string{}}, "departments"},
		{"malformed department", RawFilter{Departments: []string{"Engineering..Backend"}}, "departments"},
		{"empty projects", RawFilter{Projects: []string{}}, "projects"},
		{"bad project id", RawFilter{Projects: []string{"not-hex"}}, "projects"},
		{"empty statuses", RawFilter{Statuses: []string{}}, "statuses"},
		{"unknown status", RawFilter{Statuses: []string{"done"}}, "statuses"},
		{"empty priorities", RawFilter{Priorities: []int{}}, "priorities"},
		{"priority too low", RawFilter{Priorities: []int{0}}, "priorities"},
		{"priority too high", RawFilter{Priorities: []int{11}}, "priorities"},
		{"empty users", RawFilter{Users: []string{}}, "users"},
		{"bad user id", RawFilter{Users: []string{"zz"}}, "users"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateFilter(tc.raw)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if ve.Field != tc.field {
				t.Errorf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}

func TestValidateFilter_EndBeforeStartMessage(t *testing.T) {
	_, err := ValidateFilter(RawFilter{StartDate: "2025-10-31", EndDate: "2025-10-01"})
	if err == nil || !strings.Contains(err.Error(), "after") {
		t.Fatalf("error = %v, want message naming the ordering rule", err)
	}
}

func TestValidateFilter_AbsentListsStayNil(t *testing.T) {
	f, err := ValidateFilter(RawFilter{})
	if err != nil {
		t.Fatalf("ValidateFilter: %v", err)
	}
	if f.Departments != nil || f.Statuses != nil || f.Priorities != nil {
		t.Errorf("absent fields should stay nil: %+v", f)
	}
	if f.Start != nil || f.End != nil || f.Interval != IntervalNone {
		t.Errorf("absent range should stay unset: %+v", f)
	}
}
