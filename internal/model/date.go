package model

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// DateLayout is the wire format of a Date.
	DateLayout = "2006-01-02"
	// FixtureDateLayout is the month/day/year format used by the seed files.
	FixtureDateLayout = "01/02/2006"
)

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts either DateLayout or FixtureDateLayout.
func ParseDate(s string) (Date, error) {
	for _, layout := range []string{DateLayout, FixtureDateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
