// internal/app/system/status/status.go

// Package status holds the shared account/record status values.
package status

const (
	Active   = "active"
	Disabled = "disabled"
	Archived = "archived"
)

// IsValid reports whether s is a known account status.
func IsValid(s string) bool {
	switch s {
	case Active, Disabled:
		return true
	}
	return false
}
