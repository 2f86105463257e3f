package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	start := time.Date(2026, 8, 16, 15, 30, 0, 0, time.UTC)
	end := time.Date(2026, 8, 18, 10, 0, 0, 0, time.UTC)

	r, err := New(start, end)
	require.NoError(t, err)
	assert.Equal(t, Day(2026, time.August, 16), r.Start)
	assert.Equal(t, Day(2026, time.August, 18), r.End)
	assert.Equal(t, 2, r.Nights())

	_, err = New(end, start)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(start, start)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestParseDates(t *testing.T) {
	r, err := ParseDates("2026-12-30", "2027-01-02")
	require.NoError(t, err)
	assert.Equal(t, 3, r.Nights())
	assert.Equal(t, "2026-12-30/2027-01-02", r.String())

	_, err = ParseDates("30/12/2026", "2027-01-02")
	assert.Error(t, err)
}

func TestNights_EmptyOrInverted(t *testing.T) {
	d := Day(2026, time.August, 16)
	assert.Equal(t, 0, DateRange{Start: d, End: d}.Nights())
	assert.Equal(t, 0, DateRange{Start: d.AddDate(0, 0, 1), End: d}.Nights())
}

func TestEachNight(t *testing.T) {
	r := DateRange{Start: Day(2026, time.February, 27), End: Day(2026, time.March, 2)}

	var nights []time.Time
	r.EachNight(func(n time.Time) { nights = append(nights, n) })

	assert.Equal(t, []time.Time{
		Day(2026, time.February, 27),
		Day(2026, time.February, 28),
		Day(2026, time.March, 1),
	}, nights)
}
