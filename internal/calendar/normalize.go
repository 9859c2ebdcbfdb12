package calendar

import "time"

// Normalize moves a weekend day to the following Monday. It reports
// whether a shift happened so the caller can tell the user.
func Normalize(d Date) (Date, bool) {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDays(2), true
	case time.Sunday:
		return d.AddDays(1), true
	default:
		return d, false
	}
}

// TradingDay resolves expr and normalizes it to a weekday. A weekend day
// that shifts onto today is accepted; one that shifts past today is not.
func (r *Resolver) TradingDay(expr string) (day Date, shiftedFrom time.Weekday, shifted bool, err error) {
	d, err := r.Resolve(expr)
	if err != nil {
		return Date{}, 0, false, err
	}
	day, shifted = Normalize(d)
	if shifted && day.After(r.Today()) {
		return Date{}, 0, false, &DateError{Expr: expr, Err: ErrNotInPast}
	}
	return day, d.Weekday(), shifted, nil
}
