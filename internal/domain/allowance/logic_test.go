package allowance

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusApproved, false},
		{StatusRejected, StatusApproved, false},
		{StatusRejected, StatusPending, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestAdjustedAmount(t *testing.T) {
	if got := AdjustedAmount(500, 1.25); got != 625.00 {
		t.Fatalf("outstation amount = %v, want 625.00", got)
	}
	if got := AdjustedAmount(500, 1.10); got != 550.00 {
		t.Fatalf("ex-station amount = %v, want 550.00", got)
	}
	if got := AdjustedAmount(500, 1.00); got != 500.00 {
		t.Fatalf("normal amount = %v, want 500.00", got)
	}
	if got := AdjustedAmount(333.33, 1.25); got != 416.66 {
		t.Fatalf("rounded amount = %v, want 416.66", got)
	}
}
