package user

import (
	"strings"
	"testing"
)

func TestNullableIDMapsEmptyToNull(t *testing.T) {
	if got := nullableID(""); got != nil {
		t.Fatalf("nullableID(\"\") = %v, want nil", got)
	}
	if got := nullableID("dep-1"); got != "dep-1" {
		t.Fatalf("nullableID(dep-1) = %v, want dep-1", got)
	}
}

// The optional UUID columns must come back as text so rows with no
// department or manager, such as the bootstrap admin, scan into plain
// strings.
func TestUserColumnsCoalesceOptionalIDs(t *testing.T) {
	for _, col := range []string{"department_id", "reporting_manager_id"} {
		want := "COALESCE(" + col + "::text, '')"
		if !strings.Contains(userColumns, want) {
			t.Fatalf("userColumns missing %q:\n%s", want, userColumns)
		}
	}
}
