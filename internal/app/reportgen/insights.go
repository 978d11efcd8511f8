// internal/app/reportgen/insights.go
package reportgen

// deriveInsights computes the report superlatives from the department
// rows. Ties break toward the lexicographically smaller department
// path, which the sorted row order gives us for free: strict comparisons
// keep the first (smallest-path) row on equal values. Returns nil when
// there are no rows.
func deriveInsights(rows []DepartmentStats) *Insights {
	if len(rows) == 0 {
		return nil
	}

	most, least, busiest := rows[0], rows[0], rows[0]
	for _, row := range rows[1:] {
		if row.CompletionRate > most.CompletionRate {
			most = row
		}
		if row.CompletionRate < least.CompletionRate {
			least = row
		}
		if row.TotalTasks > busiest.TotalTasks {
			busiest = row
		}
	}

	return &Insights{
		MostProductiveDepartment:  most.Department,
		LeastProductiveDepartment: least.Department,
		HighestWorkloadDepartment: busiest.Department,
	}
}
