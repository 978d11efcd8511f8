// internal/app/reportgen/timeseries.go
package reportgen

import (
	"fmt"
	"time"

	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
)

// bucket is one time-series window: [from, to).
type bucket struct {
	label string
	from  time.Time
	to    time.Time
}

// buildBuckets partitions the inclusive [start, end] date range into
// consecutive ISO-week or calendar-month buckets. The first bucket
// starts at the period containing start, so the range is always covered
// without gaps.
func buildBuckets(start, end time.Time, interval Interval) []bucket {
	var out []bucket

	var from time.Time
	switch interval {
	case IntervalWeek:
		// Back up to the Monday of the ISO week containing start.
		offset := (int(start.Weekday()) + 6) % 7
		from = start.AddDate(0, 0, -offset)
	case IntervalMonth:
		from = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return nil
	}

	endExclusive := end.AddDate(0, 0, 1)
	for from.Before(endExclusive) {
		var to time.Time
		var label string
		switch interval {
		case IntervalWeek:
			to = from.AddDate(0, 0, 7)
			year, week := from.ISOWeek()
			label = fmt.Sprintf("%d-W%02d", year, week)
		case IntervalMonth:
			to = from.AddDate(0, 1, 0)
			label = from.Format("2006-01")
		}
		out = append(out, bucket{label: label, from: from, to: to})
		from = to
	}
	return out
}

// buildTimeSeries places every matched task into its bucket by last
// activity time and tallies each bucket. Buckets with zero tasks still
// appear, zero-filled, so charts render continuous periods.
func buildTimeSeries(tasks []models.Task, f Filter) []PeriodStats {
	if f.Interval == IntervalNone || f.Start == nil || f.End == nil {
		return nil
	}
	buckets := buildBuckets(*f.Start, *f.End, f.Interval)

	out := make([]PeriodStats, len(buckets))
	for i, b := range buckets {
		g := newTally()
		for _, t := range tasks {
			at := t.ActivityAt()
			if !at.Before(b.from) && at.Before(b.to) {
				g.add(t)
			}
		}
		out[i] = PeriodStats{
			Period:         b.label,
			TotalTasks:     g.total,
			StatusCounts:   g.statuses,
			PriorityCounts: g.prios,
			CompletionRate: completionRate(g.statuses.Completed, g.total),
		}
	}
	return out
}
