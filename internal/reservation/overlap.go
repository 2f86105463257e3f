package reservation

import "github.com/nekogravitycat/cabin-booking-backend/internal/daterange"

// Detector decides whether a candidate stay collides with existing ones.
// Ranges are half-open: a check-out on the day another stay checks in is not a conflict.
type Detector interface {
	HasConflict(candidate daterange.DateRange, existing []daterange.DateRange) bool
	FindConflicts(candidate daterange.DateRange, existing []daterange.DateRange) []daterange.DateRange
}

// LinearDetector scans every existing range. Fine for the handful of
// reservations a single cabin carries; an interval tree can replace it behind Detector.
type LinearDetector struct{}

func (LinearDetector) HasConflict(candidate daterange.DateRange, existing []daterange.DateRange) bool {
	for _, e := range existing {
		if candidate.Overlaps(e) {
			return true
		}
	}
	return false
}

func (LinearDetector) FindConflicts(candidate daterange.DateRange, existing []daterange.DateRange) []daterange.DateRange {
	var conflicts []daterange.DateRange
	for _, e := range existing {
		if candidate.Overlaps(e) {
			conflicts = append(conflicts, e)
		}
	}
	return conflicts
}

// HasConflict uses the linear detector.
func HasConflict(candidate daterange.DateRange, existing []daterange.DateRange) bool {
	return LinearDetector{}.HasConflict(candidate, existing)
}

// FindConflicts uses the linear detector.
func FindConflicts(candidate daterange.DateRange, existing []daterange.DateRange) []daterange.DateRange {
	return LinearDetector{}.FindConflicts(candidate, existing)
}

// OccupiedRanges returns the ranges of the reservations that block their dates.
func OccupiedRanges(reservations []*Reservation) []daterange.DateRange {
	ranges := make([]daterange.DateRange, 0, len(reservations))
	for _, r := range reservations {
		if r.Status.Occupying() {
			ranges = append(ranges, r.Range())
		}
	}
	return ranges
}
