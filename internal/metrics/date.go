package metrics

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar day in UTC. Trades are bucketed by the date component
// of their exit time.
type Date struct {
	time.Time
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// AddDays returns the date n days later (earlier when n < 0).
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// DaysSince returns the number of whole days from other to d.
// Both are UTC midnights, so Unix seconds divide exactly; time.Duration
// would saturate past ~292 years.
func (d Date) DaysSince(other Date) int {
	return int((d.Unix() - other.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// Equal reports whether both values name the same day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
