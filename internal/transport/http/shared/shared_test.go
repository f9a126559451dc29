package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDateNormalizesToUTCMidnight(t *testing.T) {
	want := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	got, err := ParseDate("2026-08-30")
	if err != nil || !got.Equal(want) {
		t.Fatalf("ParseDate(date-only) = (%v, %v), want %v", got, err, want)
	}
	got, err = ParseDate("2026-08-30T15:04:05+05:30")
	if err != nil || !got.Equal(want) {
		t.Fatalf("ParseDate(RFC3339) = (%v, %v), want %v", got, err, want)
	}
	if got, err := ParseDate(""); err != nil || !got.IsZero() {
		t.Fatalf("ParseDate(\"\") = (%v, %v), want zero", got, err)
	}
	if _, err := ParseDate("30/08/2026"); err == nil {
		t.Fatal("ParseDate accepted an unsupported format")
	}
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query  string
		limit  int
		offset int
	}{
		{"", 20, 0},
		{"limit=5&offset=10", 5, 10},
		{"limit=500", 100, 0},
		{"limit=10&page=3", 10, 20},
		{"page=1", 20, 0},
		{"offset=10&page=3", 20, 10},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", "/?"+tc.query, nil)
		p := ParsePagination(r, 20, 100)
		if p.Limit != tc.limit || p.Offset != tc.offset {
			t.Fatalf("ParsePagination(%q) = %+v, want limit %d offset %d", tc.query, p, tc.limit, tc.offset)
		}
	}
}
