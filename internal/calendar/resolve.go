package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Unit is the step of a relative date expression.
type Unit int

const (
	Days Unit = iota
	Weeks
	Months
	Years
)

func (u Unit) String() string {
	switch u {
	case Days:
		return "days"
	case Weeks:
		return "weeks"
	case Months:
		return "months"
	case Years:
		return "years"
	default:
		return fmt.Sprintf("unit(%d)", int(u))
	}
}

// ParseUnit accepts the singular or plural unit name.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(s) {
	case "day", "days":
		return Days, nil
	case "week", "weeks":
		return Weeks, nil
	case "month", "months":
		return Months, nil
	case "year", "years":
		return Years, nil
	default:
		return Days, fmt.Errorf("unknown unit %q", s)
	}
}

// Usage is shown to the user whenever a date expression is rejected.
const Usage = "Date needs to be in DMY (01.01.2020) format or NUMBER.days/weeks/months/years"

var (
	ErrMalformed   = errors.New("date could not be read")
	ErrUnknownUnit = errors.New("unknown relative unit")
	ErrNotInPast   = errors.New("date lies in the future")
)

// DateError reports a rejected date expression. It wraps one of
// ErrMalformed, ErrUnknownUnit or ErrNotInPast.
type DateError struct {
	Expr string
	Err  error
}

func (e *DateError) Error() string { return fmt.Sprintf("date %q: %v", e.Expr, e.Err) }
func (e *DateError) Unwrap() error { return e.Err }

// Resolver turns date expressions into calendar days relative to a clock.
type Resolver struct {
	Now func() time.Time
}

// NewResolver returns a Resolver on the system clock.
func NewResolver() *Resolver { return &Resolver{Now: time.Now} }

// Today returns the current local calendar day.
func (r *Resolver) Today() Date { return Of(r.now()) }

func (r *Resolver) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Resolve accepts "<n>.<unit>" (optionally followed by ".ago") or an
// absolute "DD.MM.YYYY". The resulting day must start strictly before now.
func (r *Resolver) Resolve(expr string) (Date, error) {
	now := r.now()
	expr = strings.TrimSpace(expr)

	var (
		d   Date
		err error
	)
	if isRelative(expr) {
		d, err = resolveRelative(expr, now)
	} else {
		d, err = Parse(expr)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	if err != nil {
		return Date{}, &DateError{Expr: expr, Err: err}
	}
	if !d.In(now.Location()).Before(now) {
		return Date{}, &DateError{Expr: expr, Err: ErrNotInPast}
	}
	return d, nil
}

func isRelative(expr string) bool {
	lower := strings.ToLower(expr)
	for _, u := range []string{"day", "week", "month", "year"} {
		if strings.Contains(lower, u) {
			return true
		}
	}
	return false
}

func resolveRelative(expr string, now time.Time) (Date, error) {
	parts := strings.Split(expr, ".")
	if len(parts) < 2 {
		return Date{}, ErrMalformed
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("%w: quantity %q", ErrMalformed, parts[0])
	}
	unit, err := ParseUnit(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("%w: %v", ErrUnknownUnit, err)
	}
	if n <= 0 {
		return Date{}, ErrNotInPast
	}

	today := Of(now)
	if n > maxQuantity(unit, today) {
		return Date{}, fmt.Errorf("%w: %d %s reaches before year 1", ErrMalformed, n, unit)
	}

	var d Date
	switch unit {
	case Weeks:
		d = today.AddDays(-7 * n)
	case Months:
		d = ShiftMonths(today, -n)
	case Years:
		d = ShiftMonths(today, -12*n)
	default:
		d = today.AddDays(-n)
	}
	if d.y < 1 {
		return Date{}, fmt.Errorf("%w: %d %s reaches before year 1", ErrMalformed, n, unit)
	}
	return d, nil
}

// maxQuantity bounds n so the arithmetic stays well inside int range.
// The exact year 1 cut-off is checked on the result.
func maxQuantity(unit Unit, today Date) int {
	switch unit {
	case Weeks:
		return today.y * 53
	case Months:
		return today.y * 12
	case Years:
		return today.y
	default:
		return today.y * 366
	}
}

// ShiftMonths moves d by n whole months, clamping the day to the last
// valid day of the target month (31 March - 1 month = 28/29 February).
func ShiftMonths(d Date, n int) Date {
	first := New(d.y, d.m+time.Month(n), 1)
	last := first.AddDays(daysIn(first.y, first.m) - 1)
	if d.d > last.d {
		return last
	}
	return New(first.y, first.m, d.d)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
