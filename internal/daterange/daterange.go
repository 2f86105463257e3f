package daterange

import (
	"math"
	"net/http"
	"time"

	"github.com/nekogravitycat/cabin-booking-backend/internal/pkg/apperror"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

var ErrInvalidRange = apperror.New(http.StatusBadRequest, "check-out must be after check-in")

// DateRange is a stay expressed as calendar dates at midnight UTC.
// End is exclusive: the night of End is not part of the range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Day returns the calendar date y-m-d at midnight UTC.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time of day from t, keeping the calendar date as seen in t's location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Day(y, m, d)
}

// New builds a range from two dates and enforces start < end.
func New(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: Truncate(start), End: Truncate(end)}
	if !r.Valid() {
		return DateRange{}, ErrInvalidRange
	}
	return r, nil
}

// ParseDates parses two YYYY-MM-DD strings into a range.
func ParseDates(start, end string) (DateRange, error) {
	s, err := time.Parse(Layout, start)
	if err != nil {
		return DateRange{}, apperror.Wrap(err, http.StatusBadRequest, "invalid check-in date, expected YYYY-MM-DD")
	}
	e, err := time.Parse(Layout, end)
	if err != nil {
		return DateRange{}, apperror.Wrap(err, http.StatusBadRequest, "invalid check-out date, expected YYYY-MM-DD")
	}
	return New(s, e)
}

// Valid reports whether Start is strictly before End.
func (r DateRange) Valid() bool {
	return r.Start.Before(r.End)
}

// Nights is the number of occupied nights, zero for an empty or inverted range.
func (r DateRange) Nights() int {
	if !r.Valid() {
		return 0
	}
	return int(math.Ceil(r.End.Sub(r.Start).Hours() / 24))
}

// Overlaps reports whether the two ranges share at least one night.
// Back-to-back stays (one ends the day the other starts) do not overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return other.Start.Before(r.End) && other.End.After(r.Start)
}

// EachNight calls fn for every night in [Start, End).
func (r DateRange) EachNight(fn func(night time.Time)) {
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

func (r DateRange) String() string {
	return r.Start.Format(Layout) + "/" + r.End.Format(Layout)
}
