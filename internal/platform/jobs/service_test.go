package jobs

import (
	"testing"
	"time"
)

func TestNextRun(t *testing.T) {
	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	next := nextRun(base, 17)
	want := time.Date(2026, 8, 31, 17, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("next run = %v, want %v", next, want)
	}

	// Past today's slot, schedule tomorrow.
	late := time.Date(2026, 8, 31, 18, 30, 0, 0, time.UTC)
	next = nextRun(late, 17)
	want = time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("next run = %v, want %v", next, want)
	}

	// Exactly at the slot also rolls over.
	exact := time.Date(2026, 8, 31, 17, 0, 0, 0, time.UTC)
	next = nextRun(exact, 17)
	if !next.Equal(want) {
		t.Fatalf("next run = %v, want %v", next, want)
	}
}
