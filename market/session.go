package market

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// SessionSpec describes the trading session window the engine walks:
// bars from trade entry through a fixed end-of-day cutoff in the
// exchange's local time.
type SessionSpec struct {
	Location *time.Location
	Cutoff   string // "HH:MM", e.g. "15:30"
}

// DefaultSession is the US equity session used when no config is given.
func DefaultSession() SessionSpec {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return SessionSpec{Location: loc, Cutoff: "15:30"}
}

// CutoffFor returns the session cutoff instant for a YYYY-MM-DD date.
func (s SessionSpec) CutoffFor(date string) (time.Time, error) {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad session date %q: %w", date, err)
	}
	hm, err := time.Parse("15:04", s.Cutoff)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad session cutoff %q: %w", s.Cutoff, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hm.Hour(), hm.Minute(), 0, 0, loc), nil
}
