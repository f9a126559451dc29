package shared

import "time"

// ParseDate accepts YYYY-MM-DD or RFC3339 and normalizes to UTC midnight.
// Allowances are keyed by calendar day, so the time of day never matters.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		if parsed, err = time.Parse(time.RFC3339, value); err != nil {
			return time.Time{}, err
		}
	}
	parsed = parsed.UTC()
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}
