package orgpath

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"Engineering", false},
		{"Engineering.Backend", false},
		{"Engineering.Backend.API", false},
		{"", true},
		{".", true},
		{".Engineering", true},
		{"Engineering.", true},
		{"Engineering..Backend", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %q, want error", tt.input, p)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if p.String() != tt.input {
				t.Errorf("Parse(%q).String() = %q", tt.input, p)
			}
		})
	}
}

func TestIsDescendantOrSelf(t *testing.T) {
	tests := []struct {
		ancestor  string
		candidate string
		want      bool
	}{
		{"Engineering", "Engineering", true},
		{"Engineering", "Engineering.Backend", true},
		{"Engineering", "Engineering.Backend.API", true},
		{"Engineering.Backend", "Engineering", false},
		{"Engineering", "Marketing", false},
		// No accidental prefix match without the separator.
		{"Engineering", "EngineeringTeam", false},
		{"Eng", "Engineering", false},
		// Case-sensitive.
		{"engineering", "Engineering", false},
	}

	for _, tt := range tests {
		got := IsDescendantOrSelf(Path(tt.ancestor), Path(tt.candidate))
		if got != tt.want {
			t.Errorf("IsDescendantOrSelf(%q, %q) = %v, want %v",
				tt.ancestor, tt.candidate, got, tt.want)
		}
	}
}

func TestFilterToSubtree(t *testing.T) {
	candidates := []Path{
		"Engineering",
		"Engineering.Backend",
		"Marketing",
		"Engineering.Backend.API",
	}
	got := FilterToSubtree("Engineering", candidates)
	want := []Path{"Engineering", "Engineering.Backend", "Engineering.Backend.API"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterToSubtree = %v, want %v", got, want)
	}
}

func TestFilterToSubtree_Empty(t *testing.T) {
	if got := FilterToSubtree("Engineering", nil); got != nil {
		t.Errorf("FilterToSubtree with no candidates = %v, want nil", got)
	}
	if got := FilterToSubtree("Engineering", []Path{"Marketing"}); got != nil {
		t.Errorf("FilterToSubtree with no matches = %v, want nil", got)
	}
}

func TestInAnySubtree(t *testing.T) {
	roots := []Path{"Engineering.Backend", "HR"}

	if !InAnySubtree(roots, "Engineering.Backend.API") {
		t.Error("expected Engineering.Backend.API inside Engineering.Backend subtree")
	}
	if !InAnySubtree(roots, "HR") {
		t.Error("expected HR to match itself")
	}
	if InAnySubtree(roots, "Engineering") {
		t.Error("Engineering is above the roots, must not match")
	}
	if InAnySubtree(nil, "Engineering") {
		t.Error("empty root set must match nothing")
	}
}

func TestParseAll(t *testing.T) {
	paths, err := ParseAll([]string{"A", "A.B"})
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("ParseAll returned %d paths, want 2", len(paths))
	}

	if _, err := ParseAll([]string{"A", ""}); err == nil {
		t.Error("ParseAll with an empty path should fail")
	}
}
