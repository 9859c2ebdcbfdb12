package calendar

import (
	"fmt"
	"time"
)

// Format is the day.month.year layout used for user input and output.
const Format = "02.01.2006"

const readFormat = "2.1.2006" // accepts single-digit day and month

// Date is a calendar day with no time of day and no zone.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date, so New(2024, 2, 30) is 1 March 2024.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.utc().Date()
	return d
}

// Of returns the calendar day of t in t's own location.
func Of(t time.Time) Date { return New(t.Date()) }

func (d Date) utc() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) Year() int             { return d.y }
func (d Date) Month() time.Month     { return d.m }
func (d Date) Day() int              { return d.d }
func (d Date) Weekday() time.Weekday { return d.utc().Weekday() }

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date { return New(d.y, d.m, d.d+n) }

func (d Date) Before(x Date) bool { return d.utc().Before(x.utc()) }
func (d Date) After(x Date) bool  { return d.utc().After(x.utc()) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// StartUTC returns 00:00:00 UTC of the day.
func (d Date) StartUTC() time.Time { return d.utc() }

// EndUTC returns 23:59:59 UTC of the day.
func (d Date) EndUTC() time.Time { return d.utc().Add(24*time.Hour - time.Second) }

// In returns local midnight of the day in loc.
func (d Date) In(loc *time.Location) time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, loc) }

func (d Date) String() string { return d.utc().Format(Format) }

// Parse reads a day.month.year string such as "01.02.2020" or "1.2.2020".
func Parse(s string) (Date, error) {
	t, err := time.Parse(readFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format DD.MM.YYYY: %w", s, err)
	}
	return Of(t), nil
}
