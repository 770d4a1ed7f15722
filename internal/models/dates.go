package models

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the wire and storage format for calendar dates.
	DateLayout = "2006-01-02"
	// MonthLayout is the wire and storage format for billing months.
	MonthLayout = "2006-01"
)

// ParseDate parses a YYYY-MM-DD calendar date into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", s)}
	}
	return d, nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateDate drops the time-of-day component, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Month identifies one calendar month (a billing cycle).
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a YYYY-MM month.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, &ValidationError{Field: "month", Reason: fmt.Sprintf("%q is not a YYYY-MM month", s)}
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String renders the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// IsZero reports whether m is the zero month.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// FirstDay returns the first calendar date of the month.
func (m Month) FirstDay() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns the last calendar date of the month.
func (m Month) LastDay() time.Time {
	return m.FirstDay().AddDate(0, 1, -1)
}

// Prev returns the month before m.
func (m Month) Prev() Month {
	return MonthOf(m.FirstDay().AddDate(0, -1, 0))
}

// Next returns the month after m.
func (m Month) Next() Month {
	return MonthOf(m.FirstDay().AddDate(0, 1, 0))
}

// Contains reports whether the calendar date d falls inside the month.
func (m Month) Contains(d time.Time) bool {
	return d.Year() == m.Year && d.Month() == m.Month
}

// Window is an inclusive calendar-date range. A zero From or To is unbounded.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d time.Time) bool {
	if !w.From.IsZero() && d.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && d.After(w.To) {
		return false
	}
	return true
}

// Validate rejects windows whose start is after their end.
func (w Window) Validate() error {
	if !w.From.IsZero() && !w.To.IsZero() && w.From.After(w.To) {
		return &ValidationError{Field: "window", Reason: "from is after to"}
	}
	return nil
}

// MonthWindow returns the window covering exactly month m.
func MonthWindow(m Month) Window {
	return Window{From: m.FirstDay(), To: m.LastDay()}
}
